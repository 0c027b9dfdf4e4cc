// dao/store.go
package dao

import (
	"context"
	"time"

	"github.com/dev-mohitbeniwal/accessledger/model"
)

// GrantMutation sets or clears direct grants for one (principal, resource)
// pair. A nil value clears the direct override for that permission.
type GrantMutation struct {
	Principal model.Principal
	Resource  model.ResourceRef
	Values    map[model.Permission]*bool
	ChangedBy string
	ChangedAt time.Time
}

type MembershipChange struct {
	GroupID   string
	UserID    string
	ChangedBy string
	ChangedAt time.Time
}

type ProfileAssignment struct {
	UserID    string
	ProfileID string // empty unassigns
	ChangedBy string
	ChangedAt time.Time
}

// GrantStore holds direct grants. Every applied change is written together
// with its change records; if the records cannot be written nothing is.
type GrantStore interface {
	ApplyGrants(ctx context.Context, m GrantMutation) ([]*model.ChangeRecord, error)
	GetDirectGrants(ctx context.Context, p model.Principal, r model.ResourceRef) (map[model.Permission]bool, error)
	ListDirectGrants(ctx context.Context, p model.Principal) ([]model.Grant, error)
}

type DirectoryStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error)
	SetUserActive(ctx context.Context, id string, active bool) error
	AssignProfile(ctx context.Context, a ProfileAssignment) (*model.ChangeRecord, error)

	CreateGroup(ctx context.Context, g *model.Group) error
	GetGroup(ctx context.Context, id string) (*model.Group, error)
	ListGroups(ctx context.Context, limit, offset int) ([]*model.Group, error)
	SetGroupActive(ctx context.Context, id string, active bool) error
	AddMember(ctx context.Context, c MembershipChange) (*model.ChangeRecord, error)
	RemoveMember(ctx context.Context, c MembershipChange) (*model.ChangeRecord, error)

	CreateResource(ctx context.Context, r *model.Resource) error
	GetResource(ctx context.Context, ref model.ResourceRef) (*model.Resource, error)
	ListResources(ctx context.Context, t model.ResourceType, limit, offset int) ([]*model.Resource, error)
	SetResourceActive(ctx context.Context, ref model.ResourceRef, active bool) error
}

type ProfileStore interface {
	CreateProfile(ctx context.Context, p *model.Profile) error
	// UpdateProfile replaces the definition and leaves the publish state alone.
	UpdateProfile(ctx context.Context, p *model.Profile) error
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
	// MarkPublished sets publishedToPortal and lastPublished in one write.
	MarkPublished(ctx context.Context, id string, at time.Time) (*model.Profile, error)
}

// ChangeReader is the read side of the change log. Both the stores and the
// search index implement it. Pages are keyed: a page holds up to limit
// records that sort strictly after the record after (nil for the first
// page), so appends between pages never repeat a record.
type ChangeReader interface {
	QueryChanges(ctx context.Context, filter model.ChangeFilter, sort model.ChangeSort, limit int, after *model.ChangeRecord) ([]*model.ChangeRecord, error)
}

type ChangeLogStore interface {
	ChangeReader
	// AppendChange assigns the record's ID (if empty) and insertion sequence.
	AppendChange(ctx context.Context, rec *model.ChangeRecord) error
}

type SnapshotReader interface {
	EvaluationSnapshot(ctx context.Context, userID string, r model.ResourceRef) (*model.EvaluationSnapshot, error)
}

type Store interface {
	GrantStore
	DirectoryStore
	ProfileStore
	ChangeLogStore
	SnapshotReader
	Close(ctx context.Context) error
}
