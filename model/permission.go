// model/permission.go
package model

import "time"

type Permission string

const (
	PermRead           Permission = "read"
	PermWrite          Permission = "write"
	PermManage         Permission = "manage"
	PermDelete         Permission = "delete"
	PermEditElements   Permission = "edit_elements"
	PermDeleteElements Permission = "delete_elements"
	PermPublish        Permission = "publish"

	// Change-record permission types for non-grant mutations.
	PermMembership Permission = "membership"
	PermProfile    Permission = "profile"
)

// PermissionDefinition is one entry of a resource type's vocabulary.
type PermissionDefinition struct {
	Name  Permission `json:"name"`
	Label string     `json:"label"`
}

var vocabularies = map[ResourceType][]PermissionDefinition{
	ResourceDocument: {
		{Name: PermRead, Label: "Odczyt"},
		{Name: PermWrite, Label: "Zapis"},
		{Name: PermManage, Label: "Zarządzanie"},
	},
	ResourceDictionary: {
		{Name: PermRead, Label: "Odczyt"},
		{Name: PermWrite, Label: "Zapis"},
		{Name: PermDelete, Label: "Usuwanie"},
		{Name: PermEditElements, Label: "Edycja elementów"},
		{Name: PermDeleteElements, Label: "Usuwanie elementów"},
	},
	ResourceReport: {
		{Name: PermRead, Label: "Odczyt"},
		{Name: PermWrite, Label: "Zapis"},
		{Name: PermPublish, Label: "Publikacja"},
	},
	ResourceCompanyRecord: {
		{Name: PermRead, Label: "Odczyt"},
		{Name: PermWrite, Label: "Zapis"},
		{Name: PermManage, Label: "Zarządzanie"},
	},
}

var permissionLabels = map[Permission]string{
	PermRead:           "Odczyt",
	PermWrite:          "Zapis",
	PermManage:         "Zarządzanie",
	PermDelete:         "Usuwanie",
	PermEditElements:   "Edycja elementów",
	PermDeleteElements: "Usuwanie elementów",
	PermPublish:        "Publikacja",
	PermMembership:     "Członkostwo w grupie",
	PermProfile:        "Profil",
}

// Vocabulary returns the permissions defined for a resource type, in display order.
func Vocabulary(t ResourceType) ([]PermissionDefinition, bool) {
	defs, ok := vocabularies[t]
	if !ok {
		return nil, false
	}
	out := make([]PermissionDefinition, len(defs))
	copy(out, defs)
	return out, true
}

// Permissions returns only the names of a resource type's vocabulary.
func (t ResourceType) Permissions() []Permission {
	defs := vocabularies[t]
	out := make([]Permission, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Name)
	}
	return out
}

// Grantable reports whether t is a resource type that can carry grants.
func (t ResourceType) Grantable() bool {
	_, ok := vocabularies[t]
	return ok
}

func (t ResourceType) Allows(p Permission) bool {
	for _, d := range vocabularies[t] {
		if d.Name == p {
			return true
		}
	}
	return false
}

// PermissionLabel returns the display label, falling back to the raw name.
func PermissionLabel(p Permission) string {
	if label, ok := permissionLabels[p]; ok {
		return label
	}
	return string(p)
}

type GrantSource string

const (
	SourceDirect  GrantSource = "direct"
	SourceGroup   GrantSource = "group"
	SourceProfile GrantSource = "profile"
	SourceNone    GrantSource = "none"
)

// Grant is a direct grant as stored, or a derived one as reported by the engine.
type Grant struct {
	Principal  Principal   `json:"principal"`
	Resource   ResourceRef `json:"resource"`
	Permission Permission  `json:"permission"`
	Value      bool        `json:"value"`
	Source     GrantSource `json:"source"`
	SourceRef  string      `json:"source_ref,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
	UpdatedBy  string      `json:"updated_by,omitempty"`
}
