package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/accessledger/db"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
)

func TestProfileService(t *testing.T) {
	env := newTestEnv(t)
	env.group(t, "ksiegowi", "Księgowi")
	doc := env.resource(t, model.ResourceDocument, "doc1", "Umowa")
	_, err := env.services.Grant.Grant(env.ctx, model.GroupPrincipal("ksiegowi"), doc, model.PermWrite, admin)
	require.NoError(t, err)

	profile, err := env.services.Profile.CreateProfile(env.ctx, model.Profile{
		ID:            "ksiegowy",
		Name:          "Księgowy",
		MappedGroupID: "ksiegowi",
		Entries: []model.ProfileEntry{
			{ResourceType: model.ResourceDocument, Permission: model.PermRead, Value: true},
			{ResourceType: model.ResourceDocument, ResourceID: "doc1", Permission: model.PermWrite, Value: false},
		},
	}, admin)
	require.NoError(t, err)
	assert.False(t, profile.PublishedToPortal)
	assert.Nil(t, profile.LastPublished)

	t.Run("Resolve_MergesMappedGroup", func(t *testing.T) {
		entries, err := env.services.Profile.ResolveProfile(env.ctx, "ksiegowy")
		require.NoError(t, err)
		assert.Equal(t, []model.ProfileEntry{
			{ResourceType: model.ResourceDocument, Permission: model.PermRead, Value: true},
			{ResourceType: model.ResourceDocument, ResourceID: "doc1", Permission: model.PermWrite, Value: true},
		}, entries)
	})

	t.Run("Resolve_UnknownProfile", func(t *testing.T) {
		_, err := env.services.Profile.ResolveProfile(env.ctx, "missing")
		assert.ErrorIs(t, err, echo_errors.ErrProfileNotFound)
	})

	t.Run("Publish_SetsFlagAndSnapshot", func(t *testing.T) {
		_, err := env.services.Profile.GetPublishedProfile(env.ctx, "ksiegowy")
		assert.ErrorIs(t, err, echo_errors.ErrProfileNotPublished)

		result, err := env.services.Profile.PublishProfile(env.ctx, "ksiegowy", admin)
		require.NoError(t, err)
		assert.True(t, result.PublishedToPortal)
		assert.Len(t, result.Entries, 2)

		stored, err := env.services.Profile.GetProfile(env.ctx, "ksiegowy")
		require.NoError(t, err)
		assert.True(t, stored.PublishedToPortal)
		require.NotNil(t, stored.LastPublished)
		assert.True(t, result.LastPublished.Equal(*stored.LastPublished))

		snapshot, err := env.services.Profile.GetPublishedProfile(env.ctx, "ksiegowy")
		require.NoError(t, err)
		assert.Equal(t, "Księgowy", snapshot.Name)
		assert.Equal(t, admin, snapshot.PublishedBy)
	})

	t.Run("Publish_TwiceRefreshesTimestamp", func(t *testing.T) {
		first, err := env.services.Profile.PublishProfile(env.ctx, "ksiegowy", admin)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		second, err := env.services.Profile.PublishProfile(env.ctx, "ksiegowy", admin)
		require.NoError(t, err)

		assert.True(t, second.PublishedToPortal)
		assert.True(t, second.LastPublished.After(first.LastPublished))
	})

	t.Run("Update_DoesNotPublish", func(t *testing.T) {
		before, err := env.services.Profile.GetPublishedProfile(env.ctx, "ksiegowy")
		require.NoError(t, err)

		current, err := env.services.Profile.GetProfile(env.ctx, "ksiegowy")
		require.NoError(t, err)
		current.Name = "Księgowy (nowy)"
		current.Entries = append(current.Entries, model.ProfileEntry{ResourceType: model.ResourceReport, Permission: model.PermRead, Value: true})
		updated, err := env.services.Profile.UpdateProfile(env.ctx, *current, admin)
		require.NoError(t, err)
		assert.Equal(t, "Księgowy (nowy)", updated.Name)
		assert.True(t, updated.PublishedToPortal)

		after, err := env.services.Profile.GetPublishedProfile(env.ctx, "ksiegowy")
		require.NoError(t, err)
		assert.Equal(t, before.Name, after.Name)
		assert.Len(t, after.Entries, len(before.Entries))
	})

	t.Run("Publish_WhileLocked_Conflict", func(t *testing.T) {
		token, err := db.LockResource(env.ctx, "profile:ksiegowy", time.Minute)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		defer db.UnlockResource(env.ctx, "profile:ksiegowy", token)

		_, err = env.services.Profile.PublishProfile(env.ctx, "ksiegowy", admin)
		assert.ErrorIs(t, err, echo_errors.ErrProfileLocked)
		assert.ErrorIs(t, err, echo_errors.ErrConflict)
	})

	t.Run("Publish_PortalDown_NotMarked", func(t *testing.T) {
		_, err := env.services.Profile.CreateProfile(env.ctx, model.Profile{ID: "praktykant", Name: "Praktykant"}, admin)
		require.NoError(t, err)

		env.redis.SetError("portal down")
		_, err = env.services.Profile.PublishProfile(env.ctx, "praktykant", admin)
		env.redis.SetError("")
		assert.ErrorIs(t, err, echo_errors.ErrUnavailable)

		stored, err := env.services.Profile.GetProfile(env.ctx, "praktykant")
		require.NoError(t, err)
		assert.False(t, stored.PublishedToPortal)
		assert.Nil(t, stored.LastPublished)
	})

	t.Run("Create_InvalidPermission", func(t *testing.T) {
		_, err := env.services.Profile.CreateProfile(env.ctx, model.Profile{
			Name:    "Zły",
			Entries: []model.ProfileEntry{{ResourceType: model.ResourceDocument, Permission: model.PermPublish, Value: true}},
		}, admin)
		assert.ErrorIs(t, err, echo_errors.ErrInvalidPermission)
	})
}

func TestUserService_PortalManagedUserIsReadOnly(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.services.Profile.CreateProfile(env.ctx, model.Profile{ID: "kierownik", Name: "Kierownik"}, admin)
	require.NoError(t, err)
	_, err = env.services.User.CreateUser(env.ctx, model.User{ID: "p1", Name: "Portal User", Email: "p1@example.com", Source: model.UserSourcePortal}, admin)
	require.NoError(t, err)

	_, err = env.services.User.AssignProfile(env.ctx, "p1", "kierownik", admin)
	assert.ErrorIs(t, err, echo_errors.ErrPortalManagedUser)
	assert.ErrorIs(t, err, echo_errors.ErrInvalidInput)
}

func TestGroupService_MembershipIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "u", "Jan Kowalski")
	env.group(t, "g", "Asystenci")

	rec, err := env.services.Group.AddMember(env.ctx, "g", "u", admin)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, model.ChangeAdd, rec.ChangeType)

	rec, err = env.services.Group.AddMember(env.ctx, "g", "u", admin)
	require.NoError(t, err)
	assert.Nil(t, rec)

	members, err := env.services.Group.ListMembers(env.ctx, "g")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "u", members[0].ID)

	rec, err = env.services.Group.RemoveMember(env.ctx, "g", "u", admin)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, model.ChangeRemove, rec.ChangeType)

	rec, err = env.services.Group.RemoveMember(env.ctx, "g", "u", admin)
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = env.services.Group.AddMember(env.ctx, "missing", "u", admin)
	assert.ErrorIs(t, err, echo_errors.ErrGroupNotFound)
}
