// model/change.go
package model

import (
	"strings"
	"time"
)

type ChangeType string

const (
	ChangeAdd    ChangeType = "add"
	ChangeRemove ChangeType = "remove"
	ChangeModify ChangeType = "modify"
)

var changeTypeLabels = map[ChangeType]string{
	ChangeAdd:    "Dodanie",
	ChangeRemove: "Usunięcie",
	ChangeModify: "Modyfikacja",
}

func (c ChangeType) Label() string {
	if label, ok := changeTypeLabels[c]; ok {
		return label
	}
	return string(c)
}

// ChangeRecord is an immutable audit entry for one permission mutation.
type ChangeRecord struct {
	ID             string        `json:"id"`
	Seq            int64         `json:"seq"`
	ResourceType   ResourceType  `json:"resource_type"`
	ResourceID     string        `json:"resource_id"`
	ResourceName   string        `json:"resource_name"`
	PrincipalID    string        `json:"principal_id"`
	PrincipalType  PrincipalType `json:"principal_type"`
	PrincipalName  string        `json:"principal_name"`
	ChangeType     ChangeType    `json:"change_type"`
	PermissionType Permission    `json:"permission_type"`
	OldValue       *bool         `json:"old_value"`
	NewValue       *bool         `json:"new_value"`
	ChangedBy      string        `json:"changed_by"`
	ChangedAt      time.Time     `json:"changed_at"`
}

// ClassifyGrantChange decides whether moving a direct grant from oldValue to
// newValue is a change and of which kind. A nil value means no direct grant.
func ClassifyGrantChange(oldValue, newValue *bool) (ChangeType, bool) {
	switch {
	case oldValue == nil && newValue == nil:
		return "", false
	case oldValue != nil && newValue != nil && *oldValue == *newValue:
		return "", false
	case newValue == nil:
		return ChangeModify, true
	case *newValue:
		return ChangeAdd, true
	default:
		return ChangeRemove, true
	}
}

// ChangeFilter narrows a history query. Zero fields do not filter.
type ChangeFilter struct {
	ResourceType ResourceType `json:"resource_type,omitempty"`
	ResourceID   string       `json:"resource_id,omitempty"`
	PrincipalID  string       `json:"principal_id,omitempty"`
	From         *time.Time   `json:"from,omitempty"`
	To           *time.Time   `json:"to,omitempty"`
}

func (f ChangeFilter) Matches(r *ChangeRecord) bool {
	if f.ResourceType != "" && r.ResourceType != f.ResourceType {
		return false
	}
	if f.ResourceID != "" && r.ResourceID != f.ResourceID {
		return false
	}
	if f.PrincipalID != "" && r.PrincipalID != f.PrincipalID {
		return false
	}
	if f.From != nil && r.ChangedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && r.ChangedAt.After(*f.To) {
		return false
	}
	return true
}

type SortField string

const (
	SortByChangedAt      SortField = "changedAt"
	SortByPrincipalName  SortField = "principalName"
	SortByChangeType     SortField = "changeType"
	SortByPermissionType SortField = "permissionType"
	SortByChangedBy      SortField = "changedBy"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type ChangeSort struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

func DefaultChangeSort() ChangeSort {
	return ChangeSort{Field: SortByChangedAt, Direction: SortDesc}
}

// ParseChangeSort accepts empty values and falls back to the defaults.
func ParseChangeSort(field, direction string) (ChangeSort, bool) {
	s := DefaultChangeSort()
	if field != "" {
		s.Field = SortField(field)
	}
	if direction != "" {
		s.Direction = SortDirection(strings.ToLower(direction))
	}
	return s, s.Valid()
}

func (s ChangeSort) Valid() bool {
	switch s.Field {
	case SortByChangedAt, SortByPrincipalName, SortByChangeType, SortByPermissionType, SortByChangedBy:
	default:
		return false
	}
	return s.Direction == SortAsc || s.Direction == SortDesc
}

// Less orders a before b. Ties on the sort field fall back to insertion order.
func (s ChangeSort) Less(a, b *ChangeRecord) bool {
	c := s.compare(a, b)
	if c == 0 {
		return a.Seq < b.Seq
	}
	if s.Direction == SortDesc {
		return c > 0
	}
	return c < 0
}

// After reports whether rec sorts strictly after cursor. A nil cursor comes
// before every record.
func (s ChangeSort) After(rec, cursor *ChangeRecord) bool {
	return cursor == nil || s.Less(cursor, rec)
}

// Value returns the field of rec that s orders by.
func (s ChangeSort) Value(rec *ChangeRecord) any {
	switch s.Field {
	case SortByPrincipalName:
		return rec.PrincipalName
	case SortByChangeType:
		return string(rec.ChangeType)
	case SortByPermissionType:
		return string(rec.PermissionType)
	case SortByChangedBy:
		return rec.ChangedBy
	default:
		return rec.ChangedAt
	}
}

func (s ChangeSort) compare(a, b *ChangeRecord) int {
	switch s.Field {
	case SortByPrincipalName:
		return strings.Compare(a.PrincipalName, b.PrincipalName)
	case SortByChangeType:
		return strings.Compare(string(a.ChangeType), string(b.ChangeType))
	case SortByPermissionType:
		return strings.Compare(string(a.PermissionType), string(b.PermissionType))
	case SortByChangedBy:
		return strings.Compare(a.ChangedBy, b.ChangedBy)
	default:
		return a.ChangedAt.Compare(b.ChangedAt)
	}
}
