package dao

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/accessledger/model"
)

func TestPlanGrantChanges(t *testing.T) {
	at := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	in := grantChangeInput{
		principal:     model.UserPrincipal("u1"),
		principalName: "Anna Nowak",
		resource:      model.ResourceRef{Type: model.ResourceDictionary, ID: "d1"},
		resourceName:  "Kontrahenci",
		changedBy:     "admin",
		changedAt:     at,
	}
	current := map[model.Permission]bool{
		model.PermRead:   true,
		model.PermWrite:  true,
		model.PermDelete: false,
	}
	values := map[model.Permission]*bool{
		model.PermWrite:          boolPtr(false),
		model.PermRead:           boolPtr(true),
		model.PermDelete:         nil,
		model.PermEditElements:   boolPtr(true),
		model.PermDeleteElements: nil,
	}

	records := planGrantChanges(in, current, values)
	require.Len(t, records, 3)

	assert.Equal(t, model.PermDelete, records[0].PermissionType)
	assert.Equal(t, model.ChangeModify, records[0].ChangeType)
	assert.Equal(t, boolPtr(false), records[0].OldValue)
	assert.Nil(t, records[0].NewValue)

	assert.Equal(t, model.PermEditElements, records[1].PermissionType)
	assert.Equal(t, model.ChangeAdd, records[1].ChangeType)
	assert.Nil(t, records[1].OldValue)

	assert.Equal(t, model.PermWrite, records[2].PermissionType)
	assert.Equal(t, model.ChangeRemove, records[2].ChangeType)
	assert.Equal(t, boolPtr(true), records[2].OldValue)
	assert.Equal(t, boolPtr(false), records[2].NewValue)

	for _, r := range records {
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, "d1", r.ResourceID)
		assert.Equal(t, "Kontrahenci", r.ResourceName)
		assert.Equal(t, model.PrincipalUser, r.PrincipalType)
		assert.Equal(t, "Anna Nowak", r.PrincipalName)
		assert.Equal(t, "admin", r.ChangedBy)
		assert.Equal(t, at, r.ChangedAt)
	}

	t.Run("NewValueIsCopied", func(t *testing.T) {
		v := true
		records := planGrantChanges(in, nil, map[model.Permission]*bool{model.PermRead: &v})
		require.Len(t, records, 1)
		v = false
		assert.True(t, *records[0].NewValue)
	})
}

func TestNewProfileAssignmentRecord(t *testing.T) {
	at := time.Now()
	user := &model.User{ID: "u1", Name: "Tomasz"}
	intern := &model.Profile{ID: "p-intern", Name: "Praktykant"}
	accountant := &model.Profile{ID: "p-acc", Name: "Księgowy"}

	assert.Nil(t, newProfileAssignmentRecord(user, intern, intern, "admin", at))
	assert.Nil(t, newProfileAssignmentRecord(user, nil, nil, "admin", at))

	rec := newProfileAssignmentRecord(user, nil, intern, "admin", at)
	require.NotNil(t, rec)
	assert.Equal(t, model.ChangeAdd, rec.ChangeType)
	assert.Equal(t, "p-intern", rec.ResourceID)
	assert.Equal(t, model.ResourceProfile, rec.ResourceType)
	assert.Equal(t, model.PermProfile, rec.PermissionType)

	rec = newProfileAssignmentRecord(user, intern, accountant, "admin", at)
	require.NotNil(t, rec)
	assert.Equal(t, model.ChangeModify, rec.ChangeType)
	assert.Equal(t, "Księgowy", rec.ResourceName)

	rec = newProfileAssignmentRecord(user, accountant, nil, "admin", at)
	require.NotNil(t, rec)
	assert.Equal(t, model.ChangeRemove, rec.ChangeType)
	assert.Equal(t, "p-acc", rec.ResourceID)
}

func TestNewMembershipRecord(t *testing.T) {
	user := &model.User{ID: "u1", Name: "Anna"}
	group := &model.Group{ID: "g1", Name: "Księgowi"}

	added := newMembershipRecord(user, group, true, "admin", time.Now())
	assert.Equal(t, model.ChangeAdd, added.ChangeType)
	assert.Equal(t, boolPtr(false), added.OldValue)
	assert.Equal(t, boolPtr(true), added.NewValue)

	removed := newMembershipRecord(user, group, false, "admin", time.Now())
	assert.Equal(t, model.ChangeRemove, removed.ChangeType)
	assert.Equal(t, model.ResourceGroup, removed.ResourceType)
	assert.Equal(t, model.PermMembership, removed.PermissionType)
}
