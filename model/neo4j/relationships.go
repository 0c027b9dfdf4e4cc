// model/neo4j/relationships.go
package echo_neo4j

// Relationship Types
const (
	// RelMemberOf connects a user to a group it belongs to
	RelMemberOf = "MEMBER_OF"

	// RelGrant connects a principal to a resource; one relationship per permission
	RelGrant = "GRANT"

	// RelHasProfile connects a user to its assigned profile
	RelHasProfile = "HAS_PROFILE"

	// RelMapsTo connects a profile to the group whose grants it includes
	RelMapsTo = "MAPS_TO"
)
