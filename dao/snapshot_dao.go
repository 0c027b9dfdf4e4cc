// dao/snapshot_dao.go
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

// snapshotQuery reads every grant layer for one (user, resource) pair in a
// single statement.
var snapshotQuery = `
MATCH (u:` + echo_neo4j.LabelUser + ` {` + echo_neo4j.AttrID + `: $userID})
OPTIONAL MATCH (r:` + echo_neo4j.LabelResource + ` {` + echo_neo4j.AttrKey + `: $resourceKey})
OPTIONAL MATCH (u)-[d:` + echo_neo4j.RelGrant + `]->(r)
WITH u, r, collect(` + grantProjection("d") + `) AS direct
OPTIONAL MATCH (u)-[:` + echo_neo4j.RelMemberOf + `]->(g:` + echo_neo4j.LabelGroup + ` {` + echo_neo4j.AttrActive + `: true})
OPTIONAL MATCH (g)-[gg:` + echo_neo4j.RelGrant + `]->(r)
WITH u, r, direct, g, collect(` + grantProjection("gg") + `) AS groupGrants
WITH u, r, direct, collect(CASE WHEN g IS NULL THEN NULL ELSE {groupID: g.` + echo_neo4j.AttrID + `, grants: groupGrants} END) AS groups
OPTIONAL MATCH (u)-[:` + echo_neo4j.RelHasProfile + `]->(p:` + echo_neo4j.LabelProfile + `)
OPTIONAL MATCH (p)-[:` + echo_neo4j.RelMapsTo + `]->(pg:` + echo_neo4j.LabelGroup + `)
OPTIONAL MATCH (pg)-[pgg:` + echo_neo4j.RelGrant + `]->(r)
RETURN u, r, direct, groups, p, pg.` + echo_neo4j.AttrID + ` AS profileGroupID, pg.` + echo_neo4j.AttrActive + ` AS profileGroupActive,
       collect(` + grantProjection("pgg") + `) AS profileGroupGrants
`

func grantProjection(rel string) string {
	return `CASE WHEN ` + rel + ` IS NULL THEN NULL ELSE {` +
		echo_neo4j.AttrPermission + `: ` + rel + `.` + echo_neo4j.AttrPermission + `, ` +
		echo_neo4j.AttrValue + `: ` + rel + `.` + echo_neo4j.AttrValue + `} END`
}

func (dao *Neo4jStore) EvaluationSnapshot(ctx context.Context, userID string, ref model.ResourceRef) (*model.EvaluationSnapshot, error) {
	start := time.Now()

	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		rows, err := tx.Run(ctx, snapshotQuery, map[string]any{"userID": userID, "resourceKey": ref.Key()})
		if err != nil {
			return nil, err
		}
		if !rows.Next(ctx) {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, echo_errors.ErrUserNotFound
		}
		return mapRecordToSnapshot(rows.Record())
	})
	if err != nil {
		logger.Debug("Failed to read evaluation snapshot",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("resource", ref.Key()),
			zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	return result.(*model.EvaluationSnapshot), nil
}

func mapRecordToSnapshot(record *neo4j.Record) (*model.EvaluationSnapshot, error) {
	resourceNode := recordNode(record, "r")
	if resourceNode == nil {
		return nil, echo_errors.ErrResourceNotFound
	}

	var profile *model.Profile
	profileID := ""
	if node := recordNode(record, "p"); node != nil {
		var err error
		profile, err = mapNodeToProfile(*node, recordString(record, "profileGroupID"))
		if err != nil {
			return nil, err
		}
		profileID = profile.ID
	}

	direct, _ := record.Get("direct")
	snap := &model.EvaluationSnapshot{
		User:     *mapNodeToUser(*recordNode(record, "u"), profileID),
		Resource: *mapNodeToResource(*resourceNode),
		Direct:   decodeGrantList(direct),
		Profile:  profile,
	}

	groups, _ := record.Get("groups")
	items, _ := groups.([]any)
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		groupID, _ := m["groupID"].(string)
		snap.Groups = append(snap.Groups, model.GroupGrants{
			GroupID: groupID,
			Grants:  decodeGrantList(m["grants"]),
		})
	}
	sort.Slice(snap.Groups, func(i, j int) bool { return snap.Groups[i].GroupID < snap.Groups[j].GroupID })

	// An inactive mapped group contributes nothing.
	if groupID := recordString(record, "profileGroupID"); groupID != "" && recordBool(record, "profileGroupActive") {
		grants, _ := record.Get("profileGroupGrants")
		snap.ProfileGroup = &model.GroupGrants{GroupID: groupID, Grants: decodeGrantList(grants)}
	}
	return snap, nil
}
