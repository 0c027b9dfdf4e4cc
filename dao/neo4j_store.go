// dao/neo4j_store.go
package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	echo_neo4j "github.com/dev-mohitbeniwal/accessledger/model/neo4j"
)

// Neo4jStore is the graph-backed Store. Each DAO file adds the methods for
// one entity; all of them share the driver.
type Neo4jStore struct {
	Driver neo4j.DriverWithContext
}

var _ Store = (*Neo4jStore)(nil)

func NewNeo4jStore(ctx context.Context, driver neo4j.DriverWithContext) (*Neo4jStore, error) {
	store := &Neo4jStore{Driver: driver}
	if err := store.EnsureConstraints(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (dao *Neo4jStore) EnsureConstraints(ctx context.Context) error {
	logger.Info("Ensuring Neo4j constraints")
	statements := []string{
		`CREATE CONSTRAINT unique_user_id IF NOT EXISTS FOR (u:` + echo_neo4j.LabelUser + `) REQUIRE u.` + echo_neo4j.AttrID + ` IS UNIQUE`,
		`CREATE CONSTRAINT unique_group_id IF NOT EXISTS FOR (g:` + echo_neo4j.LabelGroup + `) REQUIRE g.` + echo_neo4j.AttrID + ` IS UNIQUE`,
		`CREATE CONSTRAINT unique_resource_key IF NOT EXISTS FOR (r:` + echo_neo4j.LabelResource + `) REQUIRE r.` + echo_neo4j.AttrKey + ` IS UNIQUE`,
		`CREATE CONSTRAINT unique_profile_id IF NOT EXISTS FOR (p:` + echo_neo4j.LabelProfile + `) REQUIRE p.` + echo_neo4j.AttrID + ` IS UNIQUE`,
		`CREATE CONSTRAINT unique_change_record_id IF NOT EXISTS FOR (c:` + echo_neo4j.LabelChangeRecord + `) REQUIRE c.` + echo_neo4j.AttrID + ` IS UNIQUE`,
		`CREATE CONSTRAINT unique_sequence_name IF NOT EXISTS FOR (s:` + echo_neo4j.LabelSequence + `) REQUIRE s.` + echo_neo4j.AttrName + ` IS UNIQUE`,
		`CREATE INDEX change_record_changed_at IF NOT EXISTS FOR (c:` + echo_neo4j.LabelChangeRecord + `) ON (c.` + echo_neo4j.AttrChangedAt + `)`,
	}

	_, err := dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, statement := range statements {
			if _, err := tx.Run(ctx, statement, nil); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to ensure Neo4j constraints", zap.Error(err))
		return err
	}

	logger.Info("Successfully ensured Neo4j constraints")
	return nil
}

func (dao *Neo4jStore) Close(ctx context.Context) error {
	return dao.Driver.Close(ctx)
}

func (dao *Neo4jStore) write(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, work)
	return result, classifyNeo4jError(err)
}

func (dao *Neo4jStore) read(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	session := dao.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, work)
	return result, classifyNeo4jError(err)
}

// classifyNeo4jError keeps domain errors and maps driver failures onto the
// error taxonomy.
func classifyNeo4jError(err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	if neo4j.IsConnectivityError(err) || neo4j.IsRetryable(err) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", echo_errors.ErrUnavailable, err)
	}
	var neo4jErr *neo4j.Neo4jError
	if errors.As(err, &neo4jErr) && neo4jErr.Code == "Neo.ClientError.Schema.ConstraintValidationFailed" {
		return fmt.Errorf("%w: %v", echo_errors.ErrConflict, err)
	}
	return fmt.Errorf("%w: %v", echo_errors.ErrDatabaseOperation, err)
}

// isDomainError reports whether err already belongs to the error taxonomy.
func isDomainError(err error) bool {
	for _, root := range []error{
		echo_errors.ErrNotFound,
		echo_errors.ErrConflict,
		echo_errors.ErrInvalidInput,
		echo_errors.ErrInvalidPermission,
		echo_errors.ErrUnavailable,
	} {
		if errors.Is(err, root) {
			return true
		}
	}
	return false
}

func principalLabel(t model.PrincipalType) (string, error) {
	switch t {
	case model.PrincipalUser:
		return echo_neo4j.LabelUser, nil
	case model.PrincipalGroup:
		return echo_neo4j.LabelGroup, nil
	default:
		return "", echo_errors.ErrInvalidPrincipal
	}
}

func principalNotFound(t model.PrincipalType) error {
	if t == model.PrincipalGroup {
		return echo_errors.ErrGroupNotFound
	}
	return echo_errors.ErrUserNotFound
}

// nextSeq bumps a named counter inside tx. The counter node is write-locked
// until tx ends, which serializes concurrent appenders.
func nextSeq(ctx context.Context, tx neo4j.ManagedTransaction, name string) (int64, error) {
	query := `
    MERGE (s:` + echo_neo4j.LabelSequence + ` {` + echo_neo4j.AttrName + `: $name})
    ON CREATE SET s.` + echo_neo4j.AttrValue + ` = 0
    SET s.` + echo_neo4j.AttrValue + ` = s.` + echo_neo4j.AttrValue + ` + 1
    RETURN s.` + echo_neo4j.AttrValue + ` AS value
    `
	result, err := tx.Run(ctx, query, map[string]any{"name": name})
	if err != nil {
		return 0, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, err
	}
	value, _ := record.Get("value")
	seq, ok := value.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected sequence value %T", value)
	}
	return seq, nil
}

func propString(props map[string]any, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func propBool(props map[string]any, key string) bool {
	v, _ := props[key].(bool)
	return v
}

func propBoolPtr(props map[string]any, key string) *bool {
	if v, ok := props[key].(bool); ok {
		return &v
	}
	return nil
}

func propInt64(props map[string]any, key string) int64 {
	v, _ := props[key].(int64)
	return v
}

func propTime(props map[string]any, key string) time.Time {
	switch v := props[key].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

func propTimePtr(props map[string]any, key string) *time.Time {
	if _, ok := props[key]; !ok || props[key] == nil {
		return nil
	}
	t := propTime(props, key)
	return &t
}

// recordNode returns the node bound to key, or nil when the value is null.
func recordNode(record *neo4j.Record, key string) *neo4j.Node {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return nil
	}
	node, ok := value.(neo4j.Node)
	if !ok {
		return nil
	}
	return &node
}

func recordString(record *neo4j.Record, key string) string {
	value, _ := record.Get(key)
	s, _ := value.(string)
	return s
}

func recordBool(record *neo4j.Record, key string) bool {
	value, _ := record.Get(key)
	b, _ := value.(bool)
	return b
}

// decodeGrantList turns a collected list of {permission, value} maps into a
// permission map.
func decodeGrantList(value any) map[model.Permission]bool {
	out := make(map[model.Permission]bool)
	items, _ := value.([]any)
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		perm, _ := m[echo_neo4j.AttrPermission].(string)
		v, _ := m[echo_neo4j.AttrValue].(bool)
		if perm != "" {
			out[model.Permission(perm)] = v
		}
	}
	return out
}
