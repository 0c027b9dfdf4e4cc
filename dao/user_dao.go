// dao/user_dao.go
package dao

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	echo_neo4j "github.com/dev-mohitbeniwal/accessledger/model/neo4j"
)

func (dao *Neo4jStore) CreateUser(ctx context.Context, u *model.User) error {
	start := time.Now()
	logger.Info("Creating new user", zap.String(echo_neo4j.AttrID, u.ID))

	_, err := dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := nodeExists(ctx, tx, echo_neo4j.LabelUser, echo_neo4j.AttrID, u.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, echo_errors.ErrUserConflict
		}

		query := `
        CREATE (u:` + echo_neo4j.LabelUser + ` $props)
        RETURN u.` + echo_neo4j.AttrID + ` AS id
        `
		params := map[string]any{
			"props": map[string]any{
				echo_neo4j.AttrID:        u.ID,
				echo_neo4j.AttrName:      u.Name,
				echo_neo4j.AttrEmail:     u.Email,
				echo_neo4j.AttrActive:    u.Active,
				echo_neo4j.AttrSource:    string(u.Source),
				echo_neo4j.AttrCreatedAt: u.CreatedAt,
				echo_neo4j.AttrUpdatedAt: u.UpdatedAt,
			},
		}
		if _, err := tx.Run(ctx, query, params); err != nil {
			return nil, err
		}

		if u.ProfileID != "" {
			linked, err := linkProfile(ctx, tx, u.ID, u.ProfileID)
			if err != nil {
				return nil, err
			}
			if !linked {
				return nil, echo_errors.ErrProfileNotFound
			}
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to create user",
			zap.Error(err),
			zap.String(echo_neo4j.AttrID, u.ID),
			zap.Duration("duration", time.Since(start)))
		return err
	}

	logger.Info("User created successfully",
		zap.String(echo_neo4j.AttrID, u.ID),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (dao *Neo4jStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (u:` + echo_neo4j.LabelUser + ` {` + echo_neo4j.AttrID + `: $id})
        OPTIONAL MATCH (u)-[:` + echo_neo4j.RelHasProfile + `]->(p:` + echo_neo4j.LabelProfile + `)
        RETURN u, p.` + echo_neo4j.AttrID + ` AS profileID
        `
		result, err := tx.Run(ctx, query, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return nil, err
			}
			return nil, echo_errors.ErrUserNotFound
		}
		record := result.Record()
		return mapNodeToUser(*recordNode(record, "u"), recordString(record, "profileID")), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.User), nil
}

func (dao *Neo4jStore) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error) {
	limit, offset = clampPage(limit, offset)
	start := time.Now()

	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (u:` + echo_neo4j.LabelUser + `)
        OPTIONAL MATCH (u)-[:` + echo_neo4j.RelHasProfile + `]->(p:` + echo_neo4j.LabelProfile + `)
        RETURN u, p.` + echo_neo4j.AttrID + ` AS profileID
        ORDER BY u.` + echo_neo4j.AttrName + `
        SKIP $offset
        LIMIT $limit
        `
		records, err := tx.Run(ctx, query, map[string]any{"limit": limit, "offset": offset})
		if err != nil {
			return nil, err
		}
		users := make([]*model.User, 0, limit)
		for records.Next(ctx) {
			record := records.Record()
			users = append(users, mapNodeToUser(*recordNode(record, "u"), recordString(record, "profileID")))
		}
		return users, records.Err()
	})
	if err != nil {
		logger.Error("Failed to list users", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	return result.([]*model.User), nil
}

func (dao *Neo4jStore) SetUserActive(ctx context.Context, id string, active bool) error {
	return dao.setActive(ctx, echo_neo4j.LabelUser, echo_neo4j.AttrID, id, active, echo_errors.ErrUserNotFound)
}

func (dao *Neo4jStore) AssignProfile(ctx context.Context, a ProfileAssignment) (*model.ChangeRecord, error) {
	start := time.Now()
	logger.Info("Assigning profile",
		zap.String("userID", a.UserID),
		zap.String("profileID", a.ProfileID))

	result, err := dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (u:` + echo_neo4j.LabelUser + ` {` + echo_neo4j.AttrID + `: $userID})
        OPTIONAL MATCH (u)-[:` + echo_neo4j.RelHasProfile + `]->(old:` + echo_neo4j.LabelProfile + `)
        OPTIONAL MATCH (new:` + echo_neo4j.LabelProfile + ` {` + echo_neo4j.AttrID + `: $profileID})
        RETURN u, old, new
        `
		rows, err := tx.Run(ctx, query, map[string]any{"userID": a.UserID, "profileID": a.ProfileID})
		if err != nil {
			return nil, err
		}
		if !rows.Next(ctx) {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, echo_errors.ErrUserNotFound
		}
		row := rows.Record()

		var oldProfile, newProfile *model.Profile
		if node := recordNode(row, "old"); node != nil {
			oldProfile, err = mapNodeToProfile(*node, "")
			if err != nil {
				return nil, err
			}
		}
		if a.ProfileID != "" {
			node := recordNode(row, "new")
			if node == nil {
				return nil, echo_errors.ErrProfileNotFound
			}
			newProfile, err = mapNodeToProfile(*node, "")
			if err != nil {
				return nil, err
			}
		}
		user := mapNodeToUser(*recordNode(row, "u"), "")

		rec := newProfileAssignmentRecord(user, oldProfile, newProfile, a.ChangedBy, a.ChangedAt)
		if rec == nil {
			return (*model.ChangeRecord)(nil), nil
		}

		unlink := `
        MATCH (u:` + echo_neo4j.LabelUser + ` {` + echo_neo4j.AttrID + `: $userID})-[r:` + echo_neo4j.RelHasProfile + `]->()
        DELETE r
        `
		if _, err := tx.Run(ctx, unlink, map[string]any{"userID": a.UserID}); err != nil {
			return nil, err
		}
		if a.ProfileID != "" {
			if _, err := linkProfile(ctx, tx, a.UserID, a.ProfileID); err != nil {
				return nil, err
			}
		}
		touch := `
        MATCH (u:` + echo_neo4j.LabelUser + ` {` + echo_neo4j.AttrID + `: $userID})
        SET u.` + echo_neo4j.AttrUpdatedAt + ` = $at
        `
		if _, err := tx.Run(ctx, touch, map[string]any{"userID": a.UserID, "at": a.ChangedAt}); err != nil {
			return nil, err
		}
		if err := createChangeRecords(ctx, tx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	})

	if err != nil {
		logger.Error("Failed to assign profile",
			zap.Error(err),
			zap.String("userID", a.UserID),
			zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	return result.(*model.ChangeRecord), nil
}

func linkProfile(ctx context.Context, tx neo4j.ManagedTransaction, userID, profileID string) (bool, error) {
	query := `
    MATCH (u:` + echo_neo4j.LabelUser + ` {` + echo_neo4j.AttrID + `: $userID})
    MATCH (p:` + echo_neo4j.LabelProfile + ` {` + echo_neo4j.AttrID + `: $profileID})
    MERGE (u)-[:` + echo_neo4j.RelHasProfile + `]->(p)
    RETURN p.` + echo_neo4j.AttrID + ` AS id
    `
	result, err := tx.Run(ctx, query, map[string]any{"userID": userID, "profileID": profileID})
	if err != nil {
		return false, err
	}
	linked := result.Next(ctx)
	return linked, result.Err()
}

func nodeExists(ctx context.Context, tx neo4j.ManagedTransaction, label, attr, value string) (bool, error) {
	query := `MATCH (n:` + label + ` {` + attr + `: $value}) RETURN count(n) AS count`
	result, err := tx.Run(ctx, query, map[string]any{"value": value})
	if err != nil {
		return false, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return false, err
	}
	count, _ := record.Get("count")
	n, _ := count.(int64)
	return n > 0, nil
}

func (dao *Neo4jStore) setActive(ctx context.Context, label, attr, value string, active bool, notFound error) error {
	_, err := dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (n:` + label + ` {` + attr + `: $value})
        SET n.` + echo_neo4j.AttrActive + ` = $active, n.` + echo_neo4j.AttrUpdatedAt + ` = $now
        RETURN count(n) AS count
        `
		result, err := tx.Run(ctx, query, map[string]any{"value": value, "active": active, "now": time.Now().UTC()})
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		count, _ := record.Get("count")
		if n, _ := count.(int64); n == 0 {
			return nil, notFound
		}
		return nil, nil
	})
	return err
}

// Helper function to map Neo4j Node to User struct
func mapNodeToUser(node neo4j.Node, profileID string) *model.User {
	props := node.Props
	return &model.User{
		ID:        propString(props, echo_neo4j.AttrID),
		Name:      propString(props, echo_neo4j.AttrName),
		Email:     propString(props, echo_neo4j.AttrEmail),
		Active:    propBool(props, echo_neo4j.AttrActive),
		Source:    model.UserSource(propString(props, echo_neo4j.AttrSource)),
		ProfileID: profileID,
		CreatedAt: propTime(props, echo_neo4j.AttrCreatedAt),
		UpdatedAt: propTime(props, echo_neo4j.AttrUpdatedAt),
	}
}
