// model/decision.go
package model

// Decision is the engine's answer for one permission, with provenance.
type Decision struct {
	Permission  Permission  `json:"permission"`
	Granted     bool        `json:"granted"`
	Source      GrantSource `json:"source"`
	SourceRef   string      `json:"source_ref,omitempty"`
	Overridable bool        `json:"overridable"`
}

// GroupGrants holds one group's direct grants on a single resource.
type GroupGrants struct {
	GroupID string              `json:"group_id"`
	Grants  map[Permission]bool `json:"grants"`
}

// EvaluationSnapshot is everything the engine needs for one (user, resource)
// pair, read from the store in one consistent read.
type EvaluationSnapshot struct {
	User     User                `json:"user"`
	Resource Resource            `json:"resource"`
	Direct   map[Permission]bool `json:"direct"`
	// Groups the user is an active member of.
	Groups  []GroupGrants `json:"groups"`
	Profile *Profile      `json:"profile,omitempty"`
	// Grants of the profile's mapped group, if any.
	ProfileGroup *GroupGrants `json:"profile_group,omitempty"`
}
