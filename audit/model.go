// audit/model.go
package audit

import (
	"time"

	"github.com/dev-mohitbeniwal/accessledger/model"
)

// ChangeDocument is the search index form of a change record.
type ChangeDocument struct {
	ID             string    `json:"id"`
	Seq            int64     `json:"seq"`
	ResourceType   string    `json:"resource_type"`
	ResourceID     string    `json:"resource_id"`
	ResourceName   string    `json:"resource_name"`
	PrincipalID    string    `json:"principal_id"`
	PrincipalType  string    `json:"principal_type"`
	PrincipalName  string    `json:"principal_name"`
	ChangeType     string    `json:"change_type"`
	PermissionType string    `json:"permission_type"`
	OldValue       *bool     `json:"old_value,omitempty"`
	NewValue       *bool     `json:"new_value,omitempty"`
	ChangedBy      string    `json:"changed_by"`
	ChangedAt      time.Time `json:"changed_at"`
}

func NewChangeDocument(rec *model.ChangeRecord) ChangeDocument {
	return ChangeDocument{
		ID:             rec.ID,
		Seq:            rec.Seq,
		ResourceType:   string(rec.ResourceType),
		ResourceID:     rec.ResourceID,
		ResourceName:   rec.ResourceName,
		PrincipalID:    rec.PrincipalID,
		PrincipalType:  string(rec.PrincipalType),
		PrincipalName:  rec.PrincipalName,
		ChangeType:     string(rec.ChangeType),
		PermissionType: string(rec.PermissionType),
		OldValue:       rec.OldValue,
		NewValue:       rec.NewValue,
		ChangedBy:      rec.ChangedBy,
		ChangedAt:      rec.ChangedAt,
	}
}

func (d ChangeDocument) Record() *model.ChangeRecord {
	return &model.ChangeRecord{
		ID:             d.ID,
		Seq:            d.Seq,
		ResourceType:   model.ResourceType(d.ResourceType),
		ResourceID:     d.ResourceID,
		ResourceName:   d.ResourceName,
		PrincipalID:    d.PrincipalID,
		PrincipalType:  model.PrincipalType(d.PrincipalType),
		PrincipalName:  d.PrincipalName,
		ChangeType:     model.ChangeType(d.ChangeType),
		PermissionType: model.Permission(d.PermissionType),
		OldValue:       d.OldValue,
		NewValue:       d.NewValue,
		ChangedBy:      d.ChangedBy,
		ChangedAt:      d.ChangedAt,
	}
}

// indexMapping keeps every string a keyword so filters are exact and sorts
// are lexical.
const indexMapping = `{
  "mappings": {
    "properties": {
      "id":              {"type": "keyword"},
      "seq":             {"type": "long"},
      "resource_type":   {"type": "keyword"},
      "resource_id":     {"type": "keyword"},
      "resource_name":   {"type": "keyword"},
      "principal_id":    {"type": "keyword"},
      "principal_type":  {"type": "keyword"},
      "principal_name":  {"type": "keyword"},
      "change_type":     {"type": "keyword"},
      "permission_type": {"type": "keyword"},
      "old_value":       {"type": "boolean"},
      "new_value":       {"type": "boolean"},
      "changed_by":      {"type": "keyword"},
      "changed_at":      {"type": "date"}
    }
  }
}`

var sortFields = map[model.SortField]string{
	model.SortByChangedAt:      "changed_at",
	model.SortByPrincipalName:  "principal_name",
	model.SortByChangeType:     "change_type",
	model.SortByPermissionType: "permission_type",
	model.SortByChangedBy:      "changed_by",
}
