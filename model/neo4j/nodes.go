// model/neo4j/nodes.go
package echo_neo4j

// Node Labels
const (
	// LabelUser represents a user principal
	LabelUser = "User"

	// LabelGroup represents a group of users; groups are principals too
	LabelGroup = "Group"

	// LabelResource represents a grantable resource, keyed by type and id
	LabelResource = "Resource"

	// LabelProfile represents a named permission bundle
	LabelProfile = "Profile"

	// LabelChangeRecord represents an immutable audit entry
	LabelChangeRecord = "ChangeRecord"

	// LabelSequence holds monotonic counters such as change record insertion order
	LabelSequence = "Sequence"
)

// SequenceChangeRecord names the counter that orders change records.
const SequenceChangeRecord = "change_record"
