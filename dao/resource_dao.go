// dao/resource_dao.go
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

func (dao *Neo4jStore) CreateResource(ctx context.Context, r *model.Resource) error {
	start := time.Now()
	ref := r.Ref()
	logger.Info("Creating new resource", zap.String("resource", ref.Key()))

	_, err := dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := nodeExists(ctx, tx, echo_neo4j.LabelResource, echo_neo4j.AttrKey, ref.Key())
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, echo_errors.ErrResourceConflict
		}

		query := `CREATE (r:` + echo_neo4j.LabelResource + ` $props)`
		params := map[string]any{
			"props": map[string]any{
				echo_neo4j.AttrKey:       ref.Key(),
				echo_neo4j.AttrID:        r.ID,
				echo_neo4j.AttrType:      string(r.Type),
				echo_neo4j.AttrName:      r.Name,
				echo_neo4j.AttrActive:    r.Active,
				echo_neo4j.AttrCreatedAt: r.CreatedAt,
				echo_neo4j.AttrUpdatedAt: r.UpdatedAt,
			},
		}
		_, err = tx.Run(ctx, query, params)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to create resource",
			zap.Error(err),
			zap.String("resource", ref.Key()),
			zap.Duration("duration", time.Since(start)))
		return err
	}
	logger.Info("Resource created successfully",
		zap.String("resource", ref.Key()),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (dao *Neo4jStore) GetResource(ctx context.Context, ref model.ResourceRef) (*model.Resource, error) {
	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (r:` + echo_neo4j.LabelResource + ` {` + echo_neo4j.AttrKey + `: $key})
        RETURN r
        `
		rows, err := tx.Run(ctx, query, map[string]any{"key": ref.Key()})
		if err != nil {
			return nil, err
		}
		if !rows.Next(ctx) {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, echo_errors.ErrResourceNotFound
		}
		return mapNodeToResource(*recordNode(rows.Record(), "r")), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Resource), nil
}

func (dao *Neo4jStore) ListResources(ctx context.Context, t model.ResourceType, limit, offset int) ([]*model.Resource, error) {
	limit, offset = clampPage(limit, offset)

	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (r:` + echo_neo4j.LabelResource + `)
        WHERE $type = '' OR r.` + echo_neo4j.AttrType + ` = $type
        RETURN r
        ORDER BY r.` + echo_neo4j.AttrType + `, r.` + echo_neo4j.AttrName + `
        SKIP $offset
        LIMIT $limit
        `
		rows, err := tx.Run(ctx, query, map[string]any{"type": string(t), "limit": limit, "offset": offset})
		if err != nil {
			return nil, err
		}
		resources := make([]*model.Resource, 0, limit)
		for rows.Next(ctx) {
			resources = append(resources, mapNodeToResource(*recordNode(rows.Record(), "r")))
		}
		return resources, rows.Err()
	})
	if err != nil {
		logger.Error("Failed to list resources", zap.Error(err), zap.String("type", string(t)))
		return nil, err
	}
	return result.([]*model.Resource), nil
}

func (dao *Neo4jStore) SetResourceActive(ctx context.Context, ref model.ResourceRef, active bool) error {
	return dao.setActive(ctx, echo_neo4j.LabelResource, echo_neo4j.AttrKey, ref.Key(), active, echo_errors.ErrResourceNotFound)
}

func mapNodeToResource(node neo4j.Node) *model.Resource {
	props := node.Props
	return &model.Resource{
		Type:      model.ResourceType(propString(props, echo_neo4j.AttrType)),
		ID:        propString(props, echo_neo4j.AttrID),
		Name:      propString(props, echo_neo4j.AttrName),
		Active:    propBool(props, echo_neo4j.AttrActive),
		CreatedAt: propTime(props, echo_neo4j.AttrCreatedAt),
		UpdatedAt: propTime(props, echo_neo4j.AttrUpdatedAt),
	}
}
