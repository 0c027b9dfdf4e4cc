// model/resource.go
package model

import "time"

type ResourceType string

const (
	ResourceDocument      ResourceType = "document"
	ResourceDictionary    ResourceType = "dictionary"
	ResourceReport        ResourceType = "report"
	ResourceCompanyRecord ResourceType = "company_record"

	// Pseudo resource types used only by change records.
	ResourceGroup   ResourceType = "group"
	ResourceProfile ResourceType = "profile"
)

// ResourceRef identifies a resource by type and id. The core never looks
// inside a resource.
type ResourceRef struct {
	Type ResourceType `json:"type" validate:"required"`
	ID   string       `json:"id" validate:"required"`
}

func (r ResourceRef) Key() string {
	return string(r.Type) + ":" + r.ID
}

type Resource struct {
	Type      ResourceType `json:"type" validate:"required"`
	ID        string       `json:"id" validate:"required,max=200"`
	Name      string       `json:"name" validate:"required,max=300"`
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (r Resource) Ref() ResourceRef {
	return ResourceRef{Type: r.Type, ID: r.ID}
}
