// model/user.go
package model

import "time"

type PrincipalType string

const (
	PrincipalUser  PrincipalType = "user"
	PrincipalGroup PrincipalType = "group"
)

func (t PrincipalType) Valid() bool {
	return t == PrincipalUser || t == PrincipalGroup
}

// Principal identifies a user or a group that can hold grants.
type Principal struct {
	Type PrincipalType `json:"type" validate:"required,oneof=user group"`
	ID   string        `json:"id" validate:"required"`
}

func UserPrincipal(id string) Principal {
	return Principal{Type: PrincipalUser, ID: id}
}

func GroupPrincipal(id string) Principal {
	return Principal{Type: PrincipalGroup, ID: id}
}

func (p Principal) Key() string {
	return string(p.Type) + ":" + p.ID
}

// UserSource tells whether a user is managed locally or synced from the portal.
type UserSource string

const (
	UserSourceLocal  UserSource = "local"
	UserSourcePortal UserSource = "portal"
)

type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name" validate:"required,max=200"`
	Email     string     `json:"email" validate:"required,email"`
	Active    bool       `json:"active"`
	ProfileID string     `json:"profile_id,omitempty"`
	Source    UserSource `json:"source" validate:"omitempty,oneof=local portal"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=1000"`
	Active      bool      `json:"active"`
	MemberIDs   []string  `json:"member_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
