// model/profile.go
package model

import "time"

// ProfileEntry is one fixed permission of a profile. An empty ResourceID
// applies the entry to every resource of ResourceType.
type ProfileEntry struct {
	ResourceType ResourceType `json:"resource_type" validate:"required"`
	ResourceID   string       `json:"resource_id,omitempty"`
	Permission   Permission   `json:"permission" validate:"required"`
	Value        bool         `json:"value"`
}

func (e ProfileEntry) AppliesTo(r ResourceRef) bool {
	if e.ResourceType != r.Type {
		return false
	}
	return e.ResourceID == "" || e.ResourceID == r.ID
}

type Profile struct {
	ID                string         `json:"id"`
	Name              string         `json:"name" validate:"required,max=200"`
	Description       string         `json:"description" validate:"max=1000"`
	MappedGroupID     string         `json:"mapped_group_id,omitempty"`
	Entries           []ProfileEntry `json:"entries" validate:"dive"`
	PublishedToPortal bool           `json:"published_to_portal"`
	LastPublished     *time.Time     `json:"last_published,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// PublishResult is returned by a successful publish.
type PublishResult struct {
	ProfileID         string         `json:"profile_id"`
	PublishedToPortal bool           `json:"published_to_portal"`
	LastPublished     time.Time      `json:"last_published"`
	Entries           []ProfileEntry `json:"entries"`
}

// PortalSnapshot is what the portal sees of a profile: the resolved entries
// as of the last publish.
type PortalSnapshot struct {
	ProfileID     string         `json:"profile_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	MappedGroupID string         `json:"mapped_group_id,omitempty"`
	Entries       []ProfileEntry `json:"entries"`
	PublishedAt   time.Time      `json:"published_at"`
	PublishedBy   string         `json:"published_by"`
}
