// model/neo4j/attributes.go
package echo_neo4j

// Attribute Keys
const (
	AttrID          = "id"
	AttrKey         = "key"
	AttrType        = "type"
	AttrName        = "name"
	AttrDescription = "description"
	AttrEmail       = "email"
	AttrSource      = "source"
	AttrActive      = "active"
	AttrCreatedAt   = "createdAt"
	AttrUpdatedAt   = "updatedAt"
	AttrUpdatedBy   = "updatedBy"
	AttrValue       = "value"

	// AttrPermission is set on GRANT relationships
	AttrPermission = "permission"

	// Profile attributes
	AttrEntries           = "entries"
	AttrPublishedToPortal = "publishedToPortal"
	AttrLastPublished     = "lastPublished"

	// ChangeRecord attributes
	AttrSeq            = "seq"
	AttrResourceType   = "resourceType"
	AttrResourceID     = "resourceId"
	AttrResourceName   = "resourceName"
	AttrPrincipalID    = "principalId"
	AttrPrincipalType  = "principalType"
	AttrPrincipalName  = "principalName"
	AttrChangeType     = "changeType"
	AttrPermissionType = "permissionType"
	AttrOldValue       = "oldValue"
	AttrNewValue       = "newValue"
	AttrChangedBy      = "changedBy"
	AttrChangedAt      = "changedAt"
)
