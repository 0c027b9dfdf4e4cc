// dao/change_log_dao.go
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

var changeSortAttributes = map[model.SortField]string{
	model.SortByChangedAt:      echo_neo4j.AttrChangedAt,
	model.SortByPrincipalName:  echo_neo4j.AttrPrincipalName,
	model.SortByChangeType:     echo_neo4j.AttrChangeType,
	model.SortByPermissionType: echo_neo4j.AttrPermissionType,
	model.SortByChangedBy:      echo_neo4j.AttrChangedBy,
}

func (dao *Neo4jStore) AppendChange(ctx context.Context, rec *model.ChangeRecord) error {
	_, err := dao.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, createChangeRecords(ctx, tx, rec)
	})
	if err != nil {
		logger.Error("Failed to append change record", zap.Error(err), zap.String("changeType", string(rec.ChangeType)))
	}
	return err
}

func (dao *Neo4jStore) QueryChanges(ctx context.Context, filter model.ChangeFilter, order model.ChangeSort, limit int, after *model.ChangeRecord) ([]*model.ChangeRecord, error) {
	if !order.Valid() {
		return nil, echo_errors.ErrInvalidSort
	}
	limit, _ = clampPage(limit, 0)
	start := time.Now()

	direction, op := "ASC", ">"
	if order.Direction == model.SortDesc {
		direction, op = "DESC", "<"
	}
	field := "c." + changeSortAttributes[order.Field]
	seq := "c." + echo_neo4j.AttrSeq
	query := `
    MATCH (c:` + echo_neo4j.LabelChangeRecord + `)
    WHERE ($resourceType = '' OR c.` + echo_neo4j.AttrResourceType + ` = $resourceType)
      AND ($resourceID = '' OR c.` + echo_neo4j.AttrResourceID + ` = $resourceID)
      AND ($principalID = '' OR c.` + echo_neo4j.AttrPrincipalID + ` = $principalID)
      AND ($from IS NULL OR c.` + echo_neo4j.AttrChangedAt + ` >= $from)
      AND ($to IS NULL OR c.` + echo_neo4j.AttrChangedAt + ` <= $to)
      AND ($afterSeq IS NULL OR ` + field + ` ` + op + ` $afterValue OR (` + field + ` = $afterValue AND ` + seq + ` > $afterSeq))
    RETURN c
    ORDER BY ` + field + ` ` + direction + `, ` + seq + ` ASC
    LIMIT $limit
    `
	params := map[string]any{
		"resourceType": string(filter.ResourceType),
		"resourceID":   filter.ResourceID,
		"principalID":  filter.PrincipalID,
		"from":         nil,
		"to":           nil,
		"afterValue":   nil,
		"afterSeq":     nil,
		"limit":        limit,
	}
	if after != nil {
		params["afterValue"] = order.Value(after)
		params["afterSeq"] = after.Seq
	}
	if filter.From != nil {
		params["from"] = *filter.From
	}
	if filter.To != nil {
		params["to"] = *filter.To
	}

	result, err := dao.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		rows, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records := make([]*model.ChangeRecord, 0, limit)
		for rows.Next(ctx) {
			records = append(records, mapNodeToChangeRecord(*recordNode(rows.Record(), "c")))
		}
		return records, rows.Err()
	})
	if err != nil {
		logger.Error("Failed to query change records",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	return result.([]*model.ChangeRecord), nil
}

// createChangeRecords numbers and stores records inside tx. The records are
// updated in place with their sequence numbers.
func createChangeRecords(ctx context.Context, tx neo4j.ManagedTransaction, records ...*model.ChangeRecord) error {
	query := `CREATE (c:` + echo_neo4j.LabelChangeRecord + ` $props)`
	for _, rec := range records {
		seq, err := nextSeq(ctx, tx, echo_neo4j.SequenceChangeRecord)
		if err != nil {
			return err
		}
		if rec.ID == "" {
			rec.ID = newChangeID()
		}
		rec.Seq = seq

		props := map[string]any{
			echo_neo4j.AttrID:             rec.ID,
			echo_neo4j.AttrSeq:            rec.Seq,
			echo_neo4j.AttrResourceType:   string(rec.ResourceType),
			echo_neo4j.AttrResourceID:     rec.ResourceID,
			echo_neo4j.AttrResourceName:   rec.ResourceName,
			echo_neo4j.AttrPrincipalID:    rec.PrincipalID,
			echo_neo4j.AttrPrincipalType:  string(rec.PrincipalType),
			echo_neo4j.AttrPrincipalName:  rec.PrincipalName,
			echo_neo4j.AttrChangeType:     string(rec.ChangeType),
			echo_neo4j.AttrPermissionType: string(rec.PermissionType),
			echo_neo4j.AttrChangedBy:      rec.ChangedBy,
			echo_neo4j.AttrChangedAt:      rec.ChangedAt,
		}
		if rec.OldValue != nil {
			props[echo_neo4j.AttrOldValue] = *rec.OldValue
		}
		if rec.NewValue != nil {
			props[echo_neo4j.AttrNewValue] = *rec.NewValue
		}
		if _, err := tx.Run(ctx, query, map[string]any{"props": props}); err != nil {
			return err
		}
	}
	return nil
}

func mapNodeToChangeRecord(node neo4j.Node) *model.ChangeRecord {
	props := node.Props
	return &model.ChangeRecord{
		ID:             propString(props, echo_neo4j.AttrID),
		Seq:            propInt64(props, echo_neo4j.AttrSeq),
		ResourceType:   model.ResourceType(propString(props, echo_neo4j.AttrResourceType)),
		ResourceID:     propString(props, echo_neo4j.AttrResourceID),
		ResourceName:   propString(props, echo_neo4j.AttrResourceName),
		PrincipalID:    propString(props, echo_neo4j.AttrPrincipalID),
		PrincipalType:  model.PrincipalType(propString(props, echo_neo4j.AttrPrincipalType)),
		PrincipalName:  propString(props, echo_neo4j.AttrPrincipalName),
		ChangeType:     model.ChangeType(propString(props, echo_neo4j.AttrChangeType)),
		PermissionType: model.Permission(propString(props, echo_neo4j.AttrPermissionType)),
		OldValue:       propBoolPtr(props, echo_neo4j.AttrOldValue),
		NewValue:       propBoolPtr(props, echo_neo4j.AttrNewValue),
		ChangedBy:      propString(props, echo_neo4j.AttrChangedBy),
		ChangedAt:      propTime(props, echo_neo4j.AttrChangedAt),
	}
}
