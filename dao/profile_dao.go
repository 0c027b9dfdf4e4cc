// dao/profile_dao.go
package dao

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	echo_neo4j "github.com/dev-mohitbeniwal/accessledger/model/neo4j"
)

// Profile entries are kept as a JSON string property on the Profile node.

func (dao *Neo4jStore) CreateProfile(ctx context.Context, p *model.Profile) error {
	start := time.Now()
	logger.Info("Creating new profile", zap.String("profileID", p.ID), zap.String("profileName", p.Name))

	entries, err := json.Marshal(p.Entries)
	if err != nil {
		return err
	}

	_, err = dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		exists, err := nodeExists(ctx, tx, echo_neo4j.LabelProfile, echo_neo4j.AttrID, p.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, echo_errors.ErrProfileConflict
		}

		query := `CREATE (p:` + echo_neo4j.LabelProfile + ` $props)`
		props := map[string]any{
			echo_neo4j.AttrID:                p.ID,
			echo_neo4j.AttrName:              p.Name,
			echo_neo4j.AttrDescription:       p.Description,
			echo_neo4j.AttrEntries:           string(entries),
			echo_neo4j.AttrPublishedToPortal: p.PublishedToPortal,
			echo_neo4j.AttrCreatedAt:         p.CreatedAt,
			echo_neo4j.AttrUpdatedAt:         p.UpdatedAt,
		}
		if p.LastPublished != nil {
			props[echo_neo4j.AttrLastPublished] = *p.LastPublished
		}
		if _, err := tx.Run(ctx, query, map[string]any{"props": props}); err != nil {
			return nil, err
		}
		return nil, mapProfileToGroup(ctx, tx, p.ID, p.MappedGroupID)
	})

	if err != nil {
		logger.Error("Failed to create profile",
			zap.Error(err),
			zap.String("profileID", p.ID),
			zap.Duration("duration", time.Since(start)))
		return err
	}
	logger.Info("Profile created successfully",
		zap.String("profileID", p.ID),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (dao *Neo4jStore) UpdateProfile(ctx context.Context, p *model.Profile) error {
	start := time.Now()
	entries, err := json.Marshal(p.Entries)
	if err != nil {
		return err
	}

	_, err = dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (p:` + echo_neo4j.LabelProfile + ` {` + echo_neo4j.AttrID + `: $id})
        SET p.` + echo_neo4j.AttrName + ` = $name,
            p.` + echo_neo4j.AttrDescription + ` = $description,
            p.` + echo_neo4j.AttrEntries + ` = $entries,
            p.` + echo_neo4j.AttrUpdatedAt + ` = $updatedAt
        WITH p
        OPTIONAL MATCH (p)-[m:` + echo_neo4j.RelMapsTo + `]->()
        DELETE m
        RETURN count(p) AS count
        `
		params := map[string]any{
			"id":          p.ID,
			"name":        p.Name,
			"description": p.Description,
			"entries":     string(entries),
			"updatedAt":   p.UpdatedAt,
		}
		rows, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if !rows.Next(ctx) {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, echo_errors.ErrProfileNotFound
		}
		count, _ := rows.Record().Get("count")
		if n, _ := count.(int64); n == 0 {
			return nil, echo_errors.ErrProfileNotFound
		}
		return nil, mapProfileToGroup(ctx, tx, p.ID, p.MappedGroupID)
	})

	if err != nil {
		logger.Error("Failed to update profile",
			zap.Error(err),
			zap.String("profileID", p.ID),
			zap.Duration("duration", time.Since(start)))
		return err
	}
	logger.Info("Profile updated successfully",
		zap.String("profileID", p.ID),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (dao *Neo4jStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (p:` + echo_neo4j.LabelProfile + ` {` + echo_neo4j.AttrID + `: $id})
        OPTIONAL MATCH (p)-[:` + echo_neo4j.RelMapsTo + `]->(g:` + echo_neo4j.LabelGroup + `)
        RETURN p, g.` + echo_neo4j.AttrID + ` AS mappedGroupID
        `
		rows, err := tx.Run(ctx, query, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		if !rows.Next(ctx) {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, echo_errors.ErrProfileNotFound
		}
		record := rows.Record()
		return mapNodeToProfile(*recordNode(record, "p"), recordString(record, "mappedGroupID"))
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Profile), nil
}

func (dao *Neo4jStore) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (p:` + echo_neo4j.LabelProfile + `)
        OPTIONAL MATCH (p)-[:` + echo_neo4j.RelMapsTo + `]->(g:` + echo_neo4j.LabelGroup + `)
        RETURN p, g.` + echo_neo4j.AttrID + ` AS mappedGroupID
        ORDER BY p.` + echo_neo4j.AttrName + `
        `
		rows, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		var profiles []*model.Profile
		for rows.Next(ctx) {
			record := rows.Record()
			profile, err := mapNodeToProfile(*recordNode(record, "p"), recordString(record, "mappedGroupID"))
			if err != nil {
				return nil, err
			}
			profiles = append(profiles, profile)
		}
		return profiles, rows.Err()
	})
	if err != nil {
		logger.Error("Failed to list profiles", zap.Error(err))
		return nil, err
	}
	return result.([]*model.Profile), nil
}

// MarkPublished sets both publish fields in a single SET so no reader sees
// one without the other.
func (dao *Neo4jStore) MarkPublished(ctx context.Context, id string, at time.Time) (*model.Profile, error) {
	result, err := dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
        MATCH (p:` + echo_neo4j.LabelProfile + ` {` + echo_neo4j.AttrID + `: $id})
        SET p.` + echo_neo4j.AttrPublishedToPortal + ` = true,
            p.` + echo_neo4j.AttrLastPublished + ` = $at
        WITH p
        OPTIONAL MATCH (p)-[:` + echo_neo4j.RelMapsTo + `]->(g:` + echo_neo4j.LabelGroup + `)
        RETURN p, g.` + echo_neo4j.AttrID + ` AS mappedGroupID
        `
		rows, err := tx.Run(ctx, query, map[string]any{"id": id, "at": at})
		if err != nil {
			return nil, err
		}
		if !rows.Next(ctx) {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, echo_errors.ErrProfileNotFound
		}
		record := rows.Record()
		return mapNodeToProfile(*recordNode(record, "p"), recordString(record, "mappedGroupID"))
	})
	if err != nil {
		logger.Error("Failed to mark profile published", zap.Error(err), zap.String("profileID", id))
		return nil, err
	}
	return result.(*model.Profile), nil
}

func mapProfileToGroup(ctx context.Context, tx neo4j.ManagedTransaction, profileID, groupID string) error {
	if groupID == "" {
		return nil
	}
	query := `
    MATCH (p:` + echo_neo4j.LabelProfile + ` {` + echo_neo4j.AttrID + `: $profileID})
    MATCH (g:` + echo_neo4j.LabelGroup + ` {` + echo_neo4j.AttrID + `: $groupID})
    MERGE (p)-[:` + echo_neo4j.RelMapsTo + `]->(g)
    RETURN g.` + echo_neo4j.AttrID + ` AS id
    `
	rows, err := tx.Run(ctx, query, map[string]any{"profileID": profileID, "groupID": groupID})
	if err != nil {
		return err
	}
	if !rows.Next(ctx) {
		if err := rows.Err(); err != nil {
			return err
		}
		return echo_errors.ErrGroupNotFound
	}
	return nil
}

func mapNodeToProfile(node neo4j.Node, mappedGroupID string) (*model.Profile, error) {
	props := node.Props
	profile := &model.Profile{
		ID:                propString(props, echo_neo4j.AttrID),
		Name:              propString(props, echo_neo4j.AttrName),
		Description:       propString(props, echo_neo4j.AttrDescription),
		MappedGroupID:     mappedGroupID,
		PublishedToPortal: propBool(props, echo_neo4j.AttrPublishedToPortal),
		LastPublished:     propTimePtr(props, echo_neo4j.AttrLastPublished),
		CreatedAt:         propTime(props, echo_neo4j.AttrCreatedAt),
		UpdatedAt:         propTime(props, echo_neo4j.AttrUpdatedAt),
		Entries:           []model.ProfileEntry{},
	}
	if raw := propString(props, echo_neo4j.AttrEntries); raw != "" {
		if err := json.Unmarshal([]byte(raw), &profile.Entries); err != nil {
			return nil, err
		}
	}
	return profile, nil
}
