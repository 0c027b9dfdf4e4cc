// dao/grant_dao.go
package dao

import (
	"context"
	"sort"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	echo_neo4j "github.com/dev-mohitbeniwal/accessledger/model/neo4j"
)

// ApplyGrants writes the grant relationships and their change records in
// one transaction.
func (dao *Neo4jStore) ApplyGrants(ctx context.Context, m GrantMutation) ([]*model.ChangeRecord, error) {
	start := time.Now()
	label, err := principalLabel(m.Principal.Type)
	if err != nil {
		return nil, err
	}

	result, err := dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		principalName, resourceName, current, err := readDirectGrants(ctx, tx, label, m.Principal, m.Resource)
		if err != nil {
			return nil, err
		}

		records := planGrantChanges(grantChangeInput{
			principal:     m.Principal,
			principalName: principalName,
			resource:      m.Resource,
			resourceName:  resourceName,
			changedBy:     m.ChangedBy,
			changedAt:     m.ChangedAt,
		}, current, m.Values)
		if len(records) == 0 {
			return []*model.ChangeRecord(nil), nil
		}

		setQuery := `
        MATCH (p:` + label + ` {` + echo_neo4j.AttrID + `: $principalID})
        MATCH (r:` + echo_neo4j.LabelResource + ` {` + echo_neo4j.AttrKey + `: $resourceKey})
        MERGE (p)-[g:` + echo_neo4j.RelGrant + ` {` + echo_neo4j.AttrPermission + `: $permission}]->(r)
        SET g.` + echo_neo4j.AttrValue + ` = $value,
            g.` + echo_neo4j.AttrUpdatedAt + ` = $at,
            g.` + echo_neo4j.AttrUpdatedBy + ` = $by
        `
		clearQuery := `
        MATCH (p:` + label + ` {` + echo_neo4j.AttrID + `: $principalID})-[g:` + echo_neo4j.RelGrant + ` {` + echo_neo4j.AttrPermission + `: $permission}]->(r:` + echo_neo4j.LabelResource + ` {` + echo_neo4j.AttrKey + `: $resourceKey})
        DELETE g
        `
		for _, rec := range records {
			params := map[string]any{
				"principalID": m.Principal.ID,
				"resourceKey": m.Resource.Key(),
				"permission":  string(rec.PermissionType),
				"at":          m.ChangedAt,
				"by":          m.ChangedBy,
			}
			query := clearQuery
			if rec.NewValue != nil {
				query = setQuery
				params["value"] = *rec.NewValue
			}
			if _, err := tx.Run(ctx, query, params); err != nil {
				return nil, err
			}
		}

		if err := createChangeRecords(ctx, tx, records...); err != nil {
			return nil, err
		}
		return records, nil
	})

	if err != nil {
		logger.Error("Failed to apply grants",
			zap.Error(err),
			zap.String("principal", m.Principal.Key()),
			zap.String("resource", m.Resource.Key()),
			zap.Duration("duration", time.Since(start)))
		return nil, err
	}

	records := result.([]*model.ChangeRecord)
	logger.Info("Grants applied",
		zap.String("principal", m.Principal.Key()),
		zap.String("resource", m.Resource.Key()),
		zap.Int("changes", len(records)),
		zap.Duration("duration", time.Since(start)))
	return records, nil
}

func (dao *Neo4jStore) GetDirectGrants(ctx context.Context, p model.Principal, r model.ResourceRef) (map[model.Permission]bool, error) {
	label, err := principalLabel(p.Type)
	if err != nil {
		return nil, err
	}
	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, _, grants, err := readDirectGrants(ctx, tx, label, p, r)
		return grants, err
	})
	if err != nil {
		return nil, err
	}
	return result.(map[model.Permission]bool), nil
}

func (dao *Neo4jStore) ListDirectGrants(ctx context.Context, p model.Principal) ([]model.Grant, error) {
	label, err := principalLabel(p.Type)
	if err != nil {
		return nil, err
	}

	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := nodeExists(ctx, tx, label, echo_neo4j.AttrID, p.ID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, principalNotFound(p.Type)
		}

		query := `
        MATCH (p:` + label + ` {` + echo_neo4j.AttrID + `: $principalID})-[g:` + echo_neo4j.RelGrant + `]->(r:` + echo_neo4j.LabelResource + `)
        RETURN r.` + echo_neo4j.AttrType + ` AS resourceType, r.` + echo_neo4j.AttrID + ` AS resourceID, g
        `
		rows, err := tx.Run(ctx, query, map[string]any{"principalID": p.ID})
		if err != nil {
			return nil, err
		}
		var grants []model.Grant
		for rows.Next(ctx) {
			record := rows.Record()
			value, _ := record.Get("g")
			rel, ok := value.(neo4j.Relationship)
			if !ok {
				continue
			}
			grants = append(grants, model.Grant{
				Principal: p,
				Resource: model.ResourceRef{
					Type: model.ResourceType(recordString(record, "resourceType")),
					ID:   recordString(record, "resourceID"),
				},
				Permission: model.Permission(propString(rel.Props, echo_neo4j.AttrPermission)),
				Value:      propBool(rel.Props, echo_neo4j.AttrValue),
				Source:     model.SourceDirect,
				UpdatedAt:  propTime(rel.Props, echo_neo4j.AttrUpdatedAt),
				UpdatedBy:  propString(rel.Props, echo_neo4j.AttrUpdatedBy),
			})
		}
		return grants, rows.Err()
	})
	if err != nil {
		return nil, err
	}

	grants := result.([]model.Grant)
	sort.Slice(grants, func(i, j int) bool {
		if grants[i].Resource.Key() != grants[j].Resource.Key() {
			return grants[i].Resource.Key() < grants[j].Resource.Key()
		}
		return grants[i].Permission < grants[j].Permission
	})
	return grants, nil
}

// readDirectGrants loads the principal and resource names along with the
// current direct grants between them.
func readDirectGrants(ctx context.Context, tx neo4j.ManagedTransaction, label string, p model.Principal, r model.ResourceRef) (string, string, map[model.Permission]bool, error) {
	query := `
    OPTIONAL MATCH (p:` + label + ` {` + echo_neo4j.AttrID + `: $principalID})
    OPTIONAL MATCH (r:` + echo_neo4j.LabelResource + ` {` + echo_neo4j.AttrKey + `: $resourceKey})
    OPTIONAL MATCH (p)-[g:` + echo_neo4j.RelGrant + `]->(r)
    RETURN p, r, collect(CASE WHEN g IS NULL THEN NULL ELSE {` +
		echo_neo4j.AttrPermission + `: g.` + echo_neo4j.AttrPermission + `, ` +
		echo_neo4j.AttrValue + `: g.` + echo_neo4j.AttrValue + `} END) AS grants
    `
	rows, err := tx.Run(ctx, query, map[string]any{"principalID": p.ID, "resourceKey": r.Key()})
	if err != nil {
		return "", "", nil, err
	}
	row, err := rows.Single(ctx)
	if err != nil {
		return "", "", nil, err
	}

	principalNode := recordNode(row, "p")
	if principalNode == nil {
		return "", "", nil, principalNotFound(p.Type)
	}
	resourceNode := recordNode(row, "r")
	if resourceNode == nil {
		return "", "", nil, echo_errors.ErrResourceNotFound
	}
	grants, _ := row.Get("grants")
	return propString(principalNode.Props, echo_neo4j.AttrName),
		propString(resourceNode.Props, echo_neo4j.AttrName),
		decodeGrantList(grants),
		nil
}
