// dao/group_dao.go
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

func (dao *Neo4jStore) CreateGroup(ctx context.Context, g *model.Group) error {
	start := time.Now()
	logger.Info("Creating new group", zap.String("groupID", g.ID), zap.String("groupName", g.Name))

	_, err := dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := nodeExists(ctx, tx, echo_neo4j.LabelGroup, echo_neo4j.AttrID, g.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, echo_errors.ErrGroupConflict
		}

		// Members are added through AddMember so that every join is audited.
		query := `CREATE (g:` + echo_neo4j.LabelGroup + ` $props)`
		params := map[string]any{
			"props": map[string]any{
				echo_neo4j.AttrID:          g.ID,
				echo_neo4j.AttrName:        g.Name,
				echo_neo4j.AttrDescription: g.Description,
				echo_neo4j.AttrActive:      g.Active,
				echo_neo4j.AttrCreatedAt:   g.CreatedAt,
				echo_neo4j.AttrUpdatedAt:   g.UpdatedAt,
			},
		}
		_, err = tx.Run(ctx, query, params)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to create group",
			zap.Error(err),
			zap.String("groupID", g.ID),
			zap.Duration("duration", time.Since(start)))
		return err
	}

	logger.Info("Group created successfully",
		zap.String("groupID", g.ID),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (dao *Neo4jStore) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (g:` + echo_neo4j.LabelGroup + ` {` + echo_neo4j.AttrID + `: $id})
        OPTIONAL MATCH (u:` + echo_neo4j.LabelUser + `)-[:` + echo_neo4j.RelMemberOf + `]->(g)
        RETURN g, collect(u.` + echo_neo4j.AttrID + `) AS members
        `
		rows, err := tx.Run(ctx, query, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		if !rows.Next(ctx) {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, echo_errors.ErrGroupNotFound
		}
		return mapRecordToGroup(rows.Record()), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Group), nil
}

func (dao *Neo4jStore) ListGroups(ctx context.Context, limit, offset int) ([]*model.Group, error) {
	limit, offset = clampPage(limit, offset)

	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (g:` + echo_neo4j.LabelGroup + `)
        OPTIONAL MATCH (u:` + echo_neo4j.LabelUser + `)-[:` + echo_neo4j.RelMemberOf + `]->(g)
        WITH g, collect(u.` + echo_neo4j.AttrID + `) AS members
        RETURN g, members
        ORDER BY g.` + echo_neo4j.AttrName + `
        SKIP $offset
        LIMIT $limit
        `
		rows, err := tx.Run(ctx, query, map[string]any{"limit": limit, "offset": offset})
		if err != nil {
			return nil, err
		}
		groups := make([]*model.Group, 0, limit)
		for rows.Next(ctx) {
			groups = append(groups, mapRecordToGroup(rows.Record()))
		}
		return groups, rows.Err()
	})
	if err != nil {
		logger.Error("Failed to list groups", zap.Error(err))
		return nil, err
	}
	return result.([]*model.Group), nil
}

func (dao *Neo4jStore) SetGroupActive(ctx context.Context, id string, active bool) error {
	return dao.setActive(ctx, echo_neo4j.LabelGroup, echo_neo4j.AttrID, id, active, echo_errors.ErrGroupNotFound)
}

func (dao *Neo4jStore) AddMember(ctx context.Context, c MembershipChange) (*model.ChangeRecord, error) {
	return dao.changeMembership(ctx, c, true)
}

func (dao *Neo4jStore) RemoveMember(ctx context.Context, c MembershipChange) (*model.ChangeRecord, error) {
	return dao.changeMembership(ctx, c, false)
}

// changeMembership is idempotent: when the membership already has the
// requested state nothing is written and the returned record is nil.
func (dao *Neo4jStore) changeMembership(ctx context.Context, c MembershipChange, add bool) (*model.ChangeRecord, error) {
	start := time.Now()

	result, err := dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        OPTIONAL MATCH (g:` + echo_neo4j.LabelGroup + ` {` + echo_neo4j.AttrID + `: $groupID})
        OPTIONAL MATCH (u:` + echo_neo4j.LabelUser + ` {` + echo_neo4j.AttrID + `: $userID})
        OPTIONAL MATCH (u)-[m:` + echo_neo4j.RelMemberOf + `]->(g)
        RETURN g, u, m IS NOT NULL AS isMember
        `
		rows, err := tx.Run(ctx, query, map[string]any{"groupID": c.GroupID, "userID": c.UserID})
		if err != nil {
			return nil, err
		}
		row, err := rows.Single(ctx)
		if err != nil {
			return nil, err
		}
		groupNode := recordNode(row, "g")
		if groupNode == nil {
			return nil, echo_errors.ErrGroupNotFound
		}
		userNode := recordNode(row, "u")
		if userNode == nil {
			return nil, echo_errors.ErrUserNotFound
		}
		if recordBool(row, "isMember") == add {
			return (*model.ChangeRecord)(nil), nil
		}

		var mutate string
		if add {
			mutate = `
            MATCH (g:` + echo_neo4j.LabelGroup + ` {` + echo_neo4j.AttrID + `: $groupID})
            MATCH (u:` + echo_neo4j.LabelUser + ` {` + echo_neo4j.AttrID + `: $userID})
            MERGE (u)-[:` + echo_neo4j.RelMemberOf + `]->(g)
            SET g.` + echo_neo4j.AttrUpdatedAt + ` = $at
            `
		} else {
			mutate = `
            MATCH (u:` + echo_neo4j.LabelUser + ` {` + echo_neo4j.AttrID + `: $userID})-[m:` + echo_neo4j.RelMemberOf + `]->(g:` + echo_neo4j.LabelGroup + ` {` + echo_neo4j.AttrID + `: $groupID})
            DELETE m
            SET g.` + echo_neo4j.AttrUpdatedAt + ` = $at
            `
		}
		if _, err := tx.Run(ctx, mutate, map[string]any{"groupID": c.GroupID, "userID": c.UserID, "at": c.ChangedAt}); err != nil {
			return nil, err
		}

		group := &model.Group{
			ID:   propString(groupNode.Props, echo_neo4j.AttrID),
			Name: propString(groupNode.Props, echo_neo4j.AttrName),
		}
		rec := newMembershipRecord(mapNodeToUser(*userNode, ""), group, add, c.ChangedBy, c.ChangedAt)
		if err := createChangeRecords(ctx, tx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	})

	if err != nil {
		logger.Error("Failed to change group membership",
			zap.Error(err),
			zap.String("groupID", c.GroupID),
			zap.String("userID", c.UserID),
			zap.Bool("add", add),
			zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	return result.(*model.ChangeRecord), nil
}

func mapRecordToGroup(record *neo4j.Record) *model.Group {
	props := recordNode(record, "g").Props
	group := &model.Group{
		ID:          propString(props, echo_neo4j.AttrID),
		Name:        propString(props, echo_neo4j.AttrName),
		Description: propString(props, echo_neo4j.AttrDescription),
		Active:      propBool(props, echo_neo4j.AttrActive),
		CreatedAt:   propTime(props, echo_neo4j.AttrCreatedAt),
		UpdatedAt:   propTime(props, echo_neo4j.AttrUpdatedAt),
		MemberIDs:   []string{},
	}
	members, _ := record.Get("members")
	if ids, ok := members.([]any); ok {
		for _, id := range ids {
			if s, ok := id.(string); ok {
				group.MemberIDs = append(group.MemberIDs, s)
			}
		}
	}
	sort.Strings(group.MemberIDs)
	return group
}
