// dao/change_records.go
package dao

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dev-mohitbeniwal/accessledger/model"
)

type grantChangeInput struct {
	principal     model.Principal
	principalName string
	resource      model.ResourceRef
	resourceName  string
	changedBy     string
	changedAt     time.Time
}

// planGrantChanges compares the current direct grants with the requested
// values and returns one record per permission that actually changes.
// Records are produced in a stable permission order.
func planGrantChanges(in grantChangeInput, current map[model.Permission]bool, values map[model.Permission]*bool) []*model.ChangeRecord {
	perms := make([]model.Permission, 0, len(values))
	for p := range values {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })

	var records []*model.ChangeRecord
	for _, p := range perms {
		var oldValue *bool
		if v, ok := current[p]; ok {
			oldValue = boolPtr(v)
		}
		newValue := values[p]
		changeType, changed := model.ClassifyGrantChange(oldValue, newValue)
		if !changed {
			continue
		}
		var nv *bool
		if newValue != nil {
			nv = boolPtr(*newValue)
		}
		records = append(records, &model.ChangeRecord{
			ID:             newChangeID(),
			ResourceType:   in.resource.Type,
			ResourceID:     in.resource.ID,
			ResourceName:   in.resourceName,
			PrincipalID:    in.principal.ID,
			PrincipalType:  in.principal.Type,
			PrincipalName:  in.principalName,
			ChangeType:     changeType,
			PermissionType: p,
			OldValue:       oldValue,
			NewValue:       nv,
			ChangedBy:      in.changedBy,
			ChangedAt:      in.changedAt,
		})
	}
	return records
}

func newMembershipRecord(user *model.User, group *model.Group, added bool, by string, at time.Time) *model.ChangeRecord {
	changeType := model.ChangeRemove
	if added {
		changeType = model.ChangeAdd
	}
	return &model.ChangeRecord{
		ID:             newChangeID(),
		ResourceType:   model.ResourceGroup,
		ResourceID:     group.ID,
		ResourceName:   group.Name,
		PrincipalID:    user.ID,
		PrincipalType:  model.PrincipalUser,
		PrincipalName:  user.Name,
		ChangeType:     changeType,
		PermissionType: model.PermMembership,
		OldValue:       boolPtr(!added),
		NewValue:       boolPtr(added),
		ChangedBy:      by,
		ChangedAt:      at,
	}
}

// newProfileAssignmentRecord returns nil when the assignment is unchanged.
func newProfileAssignmentRecord(user *model.User, oldProfile, newProfile *model.Profile, by string, at time.Time) *model.ChangeRecord {
	oldID, newID := "", ""
	if oldProfile != nil {
		oldID = oldProfile.ID
	}
	if newProfile != nil {
		newID = newProfile.ID
	}
	if oldID == newID {
		return nil
	}

	rec := &model.ChangeRecord{
		ID:             newChangeID(),
		ResourceType:   model.ResourceProfile,
		PrincipalID:    user.ID,
		PrincipalType:  model.PrincipalUser,
		PrincipalName:  user.Name,
		PermissionType: model.PermProfile,
		ChangedBy:      by,
		ChangedAt:      at,
	}
	target := newProfile
	switch {
	case oldProfile == nil:
		rec.ChangeType = model.ChangeAdd
	case newProfile == nil:
		rec.ChangeType = model.ChangeRemove
		target = oldProfile
	default:
		rec.ChangeType = model.ChangeModify
	}
	rec.ResourceID = target.ID
	rec.ResourceName = target.Name
	return rec
}

func newChangeID() string {
	return uuid.New().String()
}

func boolPtr(v bool) *bool {
	return &v
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
