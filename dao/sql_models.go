// dao/sql_models.go
package dao

import (
	"time"

	"github.com/dev-mohitbeniwal/accessledger/model"
)

// Table rows for the relational store.

type userRow struct {
	ID        string  `gorm:"primaryKey;size:200"`
	Name      string  `gorm:"not null;size:200;index"`
	Email     string  `gorm:"size:320"`
	Active    bool    `gorm:"not null;default:true"`
	Source    string  `gorm:"not null;size:20;default:local"`
	ProfileID *string `gorm:"size:200;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRow) TableName() string { return "users" }

type groupRow struct {
	ID          string `gorm:"primaryKey;size:200"`
	Name        string `gorm:"not null;size:200;index"`
	Description string `gorm:"size:1000"`
	Active      bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (groupRow) TableName() string { return "principal_groups" }

type memberRow struct {
	GroupID   string `gorm:"primaryKey;size:200"`
	UserID    string `gorm:"primaryKey;size:200;index"`
	CreatedAt time.Time
}

func (memberRow) TableName() string { return "group_members" }

type resourceRow struct {
	Type      string `gorm:"primaryKey;size:30"`
	ID        string `gorm:"primaryKey;size:200"`
	Name      string `gorm:"not null;size:300"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (resourceRow) TableName() string { return "resources" }

type grantRow struct {
	PrincipalType string `gorm:"primaryKey;size:20"`
	PrincipalID   string `gorm:"primaryKey;size:200"`
	ResourceType  string `gorm:"primaryKey;size:30;index:idx_grant_resource,priority:1"`
	ResourceID    string `gorm:"primaryKey;size:200;index:idx_grant_resource,priority:2"`
	Permission    string `gorm:"primaryKey;size:50"`
	Value         bool   `gorm:"not null"`
	UpdatedAt     time.Time
	UpdatedBy     string `gorm:"size:200"`
}

func (grantRow) TableName() string { return "direct_grants" }

type profileRow struct {
	ID                string               `gorm:"primaryKey;size:200"`
	Name              string               `gorm:"not null;size:200;index"`
	Description       string               `gorm:"size:1000"`
	MappedGroupID     *string              `gorm:"size:200"`
	Entries           []model.ProfileEntry `gorm:"serializer:json;type:text"`
	PublishedToPortal bool                 `gorm:"not null;default:false"`
	LastPublished     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (profileRow) TableName() string { return "profiles" }

// changeRow is append-only. Seq is the insertion order used to break ties
// between records with the same sort key.
type changeRow struct {
	Seq            int64  `gorm:"primaryKey;autoIncrement"`
	ID             string `gorm:"uniqueIndex;size:36;not null"`
	ResourceType   string `gorm:"size:30;not null"`
	ResourceID     string `gorm:"size:200;not null;index"`
	ResourceName   string `gorm:"size:300"`
	PrincipalID    string `gorm:"size:200;not null;index"`
	PrincipalType  string `gorm:"size:20;not null"`
	PrincipalName  string `gorm:"size:200"`
	ChangeType     string `gorm:"size:20;not null"`
	PermissionType string `gorm:"size:50;not null"`
	OldValue       *bool
	NewValue       *bool
	ChangedBy      string    `gorm:"size:200;not null"`
	ChangedAt      time.Time `gorm:"not null;index"`
}

func (changeRow) TableName() string { return "permission_changes" }

func newUserRow(u *model.User) *userRow {
	row := &userRow{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Active:    u.Active,
		Source:    string(u.Source),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.ProfileID != "" {
		id := u.ProfileID
		row.ProfileID = &id
	}
	return row
}

func (r *userRow) toModel() *model.User {
	u := &model.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Active:    r.Active,
		Source:    model.UserSource(r.Source),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.ProfileID != nil {
		u.ProfileID = *r.ProfileID
	}
	return u
}

func (r *groupRow) toModel(members []string) *model.Group {
	if members == nil {
		members = []string{}
	}
	return &model.Group{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
		MemberIDs:   members,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *resourceRow) toModel() *model.Resource {
	return &model.Resource{
		Type:      model.ResourceType(r.Type),
		ID:        r.ID,
		Name:      r.Name,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newProfileRow(p *model.Profile) *profileRow {
	row := &profileRow{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Entries:           p.Entries,
		PublishedToPortal: p.PublishedToPortal,
		LastPublished:     p.LastPublished,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.MappedGroupID != "" {
		id := p.MappedGroupID
		row.MappedGroupID = &id
	}
	return row
}

func (r *profileRow) toModel() *model.Profile {
	p := &model.Profile{
		ID:                r.ID,
		Name:              r.Name,
		Description:       r.Description,
		Entries:           r.Entries,
		PublishedToPortal: r.PublishedToPortal,
		LastPublished:     r.LastPublished,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if p.Entries == nil {
		p.Entries = []model.ProfileEntry{}
	}
	if r.MappedGroupID != nil {
		p.MappedGroupID = *r.MappedGroupID
	}
	return p
}

func newChangeRow(rec *model.ChangeRecord) *changeRow {
	return &changeRow{
		ID:             rec.ID,
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

func (r *changeRow) toModel() *model.ChangeRecord {
	return &model.ChangeRecord{
		ID:             r.ID,
		Seq:            r.Seq,
		ResourceType:   model.ResourceType(r.ResourceType),
		ResourceID:     r.ResourceID,
		ResourceName:   r.ResourceName,
		PrincipalID:    r.PrincipalID,
		PrincipalType:  model.PrincipalType(r.PrincipalType),
		PrincipalName:  r.PrincipalName,
		ChangeType:     model.ChangeType(r.ChangeType),
		PermissionType: model.Permission(r.PermissionType),
		OldValue:       r.OldValue,
		NewValue:       r.NewValue,
		ChangedBy:      r.ChangedBy,
		ChangedAt:      r.ChangedAt,
	}
}
