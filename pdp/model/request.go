package model

import (
	"github.com/dev-mohitbeniwal/accessledger/model"
)

// AccessRequest asks for the effective value of one permission. An empty
// Permission asks for the whole vocabulary of the resource type.
type AccessRequest struct {
	UserID     string            `json:"user_id" validate:"required"`
	Resource   model.ResourceRef `json:"resource" validate:"required"`
	Permission model.Permission  `json:"permission,omitempty"`
}
