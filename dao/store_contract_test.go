package dao_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dev-mohitbeniwal/accessledger/dao"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	"github.com/dev-mohitbeniwal/accessledger/model"
)

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) dao.Store {
		return dao.NewMemoryStore()
	})
}

// Set NEO4J_TEST_URI (and optionally NEO4J_TEST_USER, NEO4J_TEST_PASSWORD)
// to run the contract against a live server.
func TestNeo4jStore(t *testing.T) {
	uri := os.Getenv("NEO4J_TEST_URI")
	if uri == "" {
		t.Skip("NEO4J_TEST_URI not set")
	}
	runStoreContract(t, func(t *testing.T) dao.Store {
		ctx := context.Background()
		driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(os.Getenv("NEO4J_TEST_USER"), os.Getenv("NEO4J_TEST_PASSWORD"), ""))
		require.NoError(t, err)
		store, err := dao.NewNeo4jStore(ctx, driver)
		require.NoError(t, err)
		t.Cleanup(func() { store.Close(ctx) })
		return store
	})
}

// Set POSTGRES_TEST_DSN to run the contract against a live database.
func TestSQLStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	runStoreContract(t, func(t *testing.T) dao.Store {
		ctx := context.Background()
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		require.NoError(t, err)
		store, err := dao.NewSQLStore(ctx, db)
		require.NoError(t, err)
		t.Cleanup(func() { store.Close(ctx) })
		return store
	})
}

type fixture struct {
	store dao.Store
	ctx   context.Context
	// suffix keeps ids unique on shared databases
	suffix string
	now    time.Time
}

func (f *fixture) id(prefix string) string {
	return prefix + "-" + f.suffix
}

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{ID: f.id(name), Name: name, Email: name + "@example.com", Active: true, Source: model.UserSourceLocal, CreatedAt: f.now, UpdatedAt: f.now}
	require.NoError(t, f.store.CreateUser(f.ctx, u))
	return u
}

func (f *fixture) group(t *testing.T, name string) *model.Group {
	t.Helper()
	g := &model.Group{ID: f.id(name), Name: name, Active: true, CreatedAt: f.now, UpdatedAt: f.now}
	require.NoError(t, f.store.CreateGroup(f.ctx, g))
	return g
}

func (f *fixture) resource(t *testing.T, rt model.ResourceType, name string) model.ResourceRef {
	t.Helper()
	r := &model.Resource{Type: rt, ID: f.id(name), Name: name, Active: true, CreatedAt: f.now, UpdatedAt: f.now}
	require.NoError(t, f.store.CreateResource(f.ctx, r))
	return r.Ref()
}

func (f *fixture) apply(t *testing.T, p model.Principal, r model.ResourceRef, values map[model.Permission]*bool) []*model.ChangeRecord {
	t.Helper()
	records, err := f.store.ApplyGrants(f.ctx, dao.GrantMutation{Principal: p, Resource: r, Values: values, ChangedBy: "admin", ChangedAt: f.now})
	require.NoError(t, err)
	return records
}

func ptr(v bool) *bool { return &v }

func runStoreContract(t *testing.T, newStore func(t *testing.T) dao.Store) {
	setup := func(t *testing.T) *fixture {
		return &fixture{
			store:  newStore(t),
			ctx:    context.Background(),
			suffix: uuid.NewString()[:8],
			now:    time.Now().UTC().Truncate(time.Millisecond),
		}
	}

	t.Run("ApplyGrants_RecordsEachChangedBit", func(t *testing.T) {
		f := setup(t)
		u := f.user(t, "anna")
		doc := f.resource(t, model.ResourceDocument, "faktura")
		p := model.UserPrincipal(u.ID)

		records := f.apply(t, p, doc, map[model.Permission]*bool{model.PermRead: ptr(true), model.PermWrite: ptr(false)})
		require.Len(t, records, 2)
		assert.Equal(t, model.PermRead, records[0].PermissionType)
		assert.Equal(t, model.ChangeAdd, records[0].ChangeType)
		assert.Nil(t, records[0].OldValue)
		assert.Equal(t, "anna", records[0].PrincipalName)
		assert.Equal(t, "faktura", records[0].ResourceName)
		assert.Equal(t, model.PermWrite, records[1].PermissionType)
		assert.Equal(t, model.ChangeRemove, records[1].ChangeType)
		assert.Less(t, records[0].Seq, records[1].Seq)

		grants, err := f.store.GetDirectGrants(f.ctx, p, doc)
		require.NoError(t, err)
		assert.Equal(t, map[model.Permission]bool{model.PermRead: true, model.PermWrite: false}, grants)
	})

	t.Run("ApplyGrants_NoChangeNoRecord", func(t *testing.T) {
		f := setup(t)
		u := f.user(t, "piotr")
		doc := f.resource(t, model.ResourceDocument, "umowa")
		p := model.UserPrincipal(u.ID)

		f.apply(t, p, doc, map[model.Permission]*bool{model.PermRead: ptr(true)})
		assert.Empty(t, f.apply(t, p, doc, map[model.Permission]*bool{model.PermRead: ptr(true)}))
		assert.Empty(t, f.apply(t, p, doc, map[model.Permission]*bool{model.PermWrite: nil}))
	})

	t.Run("ApplyGrants_ClearIsModify", func(t *testing.T) {
		f := setup(t)
		g := f.group(t, "ksiegowi")
		dict := f.resource(t, model.ResourceDictionary, "kontrahenci")
		p := model.GroupPrincipal(g.ID)

		f.apply(t, p, dict, map[model.Permission]*bool{model.PermDelete: ptr(true)})
		records := f.apply(t, p, dict, map[model.Permission]*bool{model.PermDelete: nil})
		require.Len(t, records, 1)
		assert.Equal(t, model.ChangeModify, records[0].ChangeType)
		assert.Equal(t, ptr(true), records[0].OldValue)
		assert.Nil(t, records[0].NewValue)

		grants, err := f.store.GetDirectGrants(f.ctx, p, dict)
		require.NoError(t, err)
		assert.Empty(t, grants)
	})

	t.Run("ApplyGrants_UnknownReferences", func(t *testing.T) {
		f := setup(t)
		u := f.user(t, "tomasz")
		doc := f.resource(t, model.ResourceDocument, "bilans")
		values := map[model.Permission]*bool{model.PermRead: ptr(true)}

		_, err := f.store.ApplyGrants(f.ctx, dao.GrantMutation{Principal: model.UserPrincipal(f.id("ghost")), Resource: doc, Values: values})
		assert.ErrorIs(t, err, echo_errors.ErrNotFound)

		_, err = f.store.ApplyGrants(f.ctx, dao.GrantMutation{Principal: model.UserPrincipal(u.ID), Resource: model.ResourceRef{Type: model.ResourceDocument, ID: f.id("missing")}, Values: values})
		assert.ErrorIs(t, err, echo_errors.ErrResourceNotFound)
	})

	t.Run("Membership_IsIdempotent", func(t *testing.T) {
		f := setup(t)
		u := f.user(t, "magda")
		g := f.group(t, "kierownicy")
		change := dao.MembershipChange{GroupID: g.ID, UserID: u.ID, ChangedBy: "admin", ChangedAt: f.now}

		rec, err := f.store.AddMember(f.ctx, change)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, model.PermMembership, rec.PermissionType)
		assert.Equal(t, model.ChangeAdd, rec.ChangeType)

		rec, err = f.store.AddMember(f.ctx, change)
		require.NoError(t, err)
		assert.Nil(t, rec)

		rec, err = f.store.RemoveMember(f.ctx, change)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, model.ChangeRemove, rec.ChangeType)

		rec, err = f.store.RemoveMember(f.ctx, change)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("EvaluationSnapshot", func(t *testing.T) {
		f := setup(t)
		u := f.user(t, "jan")
		active := f.group(t, "aktywni")
		inactive := f.group(t, "nieaktywni")
		mapped := f.group(t, "praktykanci")
		dict := f.resource(t, model.ResourceDictionary, "stawki")

		for _, g := range []*model.Group{active, inactive, mapped} {
			_, err := f.store.AddMember(f.ctx, dao.MembershipChange{GroupID: g.ID, UserID: u.ID, ChangedBy: "admin", ChangedAt: f.now})
			require.NoError(t, err)
			f.apply(t, model.GroupPrincipal(g.ID), dict, map[model.Permission]*bool{model.PermRead: ptr(true)})
		}
		require.NoError(t, f.store.SetGroupActive(f.ctx, inactive.ID, false))
		f.apply(t, model.UserPrincipal(u.ID), dict, map[model.Permission]*bool{model.PermWrite: ptr(false)})

		profile := &model.Profile{
			ID:            f.id("praktykant"),
			Name:          "Praktykant",
			MappedGroupID: mapped.ID,
			Entries:       []model.ProfileEntry{{ResourceType: model.ResourceDictionary, Permission: model.PermRead, Value: true}},
			CreatedAt:     f.now,
			UpdatedAt:     f.now,
		}
		require.NoError(t, f.store.CreateProfile(f.ctx, profile))
		_, err := f.store.AssignProfile(f.ctx, dao.ProfileAssignment{UserID: u.ID, ProfileID: profile.ID, ChangedBy: "admin", ChangedAt: f.now})
		require.NoError(t, err)

		snap, err := f.store.EvaluationSnapshot(f.ctx, u.ID, dict)
		require.NoError(t, err)
		assert.Equal(t, map[model.Permission]bool{model.PermWrite: false}, snap.Direct)

		groupIDs := []string{}
		for _, g := range snap.Groups {
			groupIDs = append(groupIDs, g.GroupID)
			assert.Equal(t, map[model.Permission]bool{model.PermRead: true}, g.Grants)
		}
		assert.ElementsMatch(t, []string{active.ID, mapped.ID}, groupIDs)

		require.NotNil(t, snap.Profile)
		assert.Equal(t, profile.ID, snap.Profile.ID)
		assert.Len(t, snap.Profile.Entries, 1)
		require.NotNil(t, snap.ProfileGroup)
		assert.Equal(t, mapped.ID, snap.ProfileGroup.GroupID)
	})

	t.Run("AssignProfile_Records", func(t *testing.T) {
		f := setup(t)
		u := f.user(t, "ola")
		p1 := &model.Profile{ID: f.id("ksiegowy"), Name: "Księgowy", CreatedAt: f.now, UpdatedAt: f.now}
		p2 := &model.Profile{ID: f.id("kierownik"), Name: "Kierownik", CreatedAt: f.now, UpdatedAt: f.now}
		require.NoError(t, f.store.CreateProfile(f.ctx, p1))
		require.NoError(t, f.store.CreateProfile(f.ctx, p2))

		assign := func(profileID string) *model.ChangeRecord {
			rec, err := f.store.AssignProfile(f.ctx, dao.ProfileAssignment{UserID: u.ID, ProfileID: profileID, ChangedBy: "admin", ChangedAt: f.now})
			require.NoError(t, err)
			return rec
		}

		rec := assign(p1.ID)
		require.NotNil(t, rec)
		assert.Equal(t, model.ChangeAdd, rec.ChangeType)
		assert.Nil(t, assign(p1.ID))

		rec = assign(p2.ID)
		require.NotNil(t, rec)
		assert.Equal(t, model.ChangeModify, rec.ChangeType)
		assert.Equal(t, p2.ID, rec.ResourceID)

		rec = assign("")
		require.NotNil(t, rec)
		assert.Equal(t, model.ChangeRemove, rec.ChangeType)
		assert.Equal(t, p2.ID, rec.ResourceID)

		_, err := f.store.AssignProfile(f.ctx, dao.ProfileAssignment{UserID: u.ID, ProfileID: f.id("nope")})
		assert.ErrorIs(t, err, echo_errors.ErrProfileNotFound)
	})

	t.Run("Profile_UpdateKeepsPublishState", func(t *testing.T) {
		f := setup(t)
		p := &model.Profile{ID: f.id("admin"), Name: "Administrator systemu", CreatedAt: f.now, UpdatedAt: f.now}
		require.NoError(t, f.store.CreateProfile(f.ctx, p))

		published, err := f.store.MarkPublished(f.ctx, p.ID, f.now)
		require.NoError(t, err)
		assert.True(t, published.PublishedToPortal)
		require.NotNil(t, published.LastPublished)

		p.Description = "edited"
		p.PublishedToPortal = false
		p.LastPublished = nil
		require.NoError(t, f.store.UpdateProfile(f.ctx, p))

		got, err := f.store.GetProfile(f.ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Description)
		assert.True(t, got.PublishedToPortal)
		require.NotNil(t, got.LastPublished)
		assert.WithinDuration(t, f.now, *got.LastPublished, time.Millisecond)

		assert.ErrorIs(t, f.store.CreateProfile(f.ctx, p), echo_errors.ErrConflict)
		assert.ErrorIs(t, f.store.UpdateProfile(f.ctx, &model.Profile{ID: f.id("missing"), Name: "x"}), echo_errors.ErrProfileNotFound)
	})

	t.Run("QueryChanges_FilterAndOrder", func(t *testing.T) {
		f := setup(t)
		u := f.user(t, "ewa")
		doc := f.resource(t, model.ResourceDocument, "raport")
		p := model.UserPrincipal(u.ID)

		first := f.apply(t, p, doc, map[model.Permission]*bool{model.PermRead: ptr(true), model.PermWrite: ptr(true)})
		later := f.now.Add(time.Minute)
		second, err := f.store.ApplyGrants(f.ctx, dao.GrantMutation{
			Principal: p, Resource: doc,
			Values:    map[model.Permission]*bool{model.PermManage: ptr(true)},
			ChangedBy: "admin", ChangedAt: later,
		})
		require.NoError(t, err)

		got, err := f.store.QueryChanges(f.ctx, model.ChangeFilter{ResourceID: doc.ID}, model.DefaultChangeSort(), 10, nil)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, second[0].ID, got[0].ID)
		// equal timestamps keep insertion order
		assert.Equal(t, first[0].ID, got[1].ID)
		assert.Equal(t, first[1].ID, got[2].ID)

		got, err = f.store.QueryChanges(f.ctx, model.ChangeFilter{ResourceID: doc.ID, From: &later}, model.DefaultChangeSort(), 10, nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, model.PermManage, got[0].PermissionType)

		page1, err := f.store.QueryChanges(f.ctx, model.ChangeFilter{ResourceID: doc.ID}, model.DefaultChangeSort(), 2, nil)
		require.NoError(t, err)
		require.Len(t, page1, 2)
		// a newer change appended between pages must not shift the next page
		_, err = f.store.ApplyGrants(f.ctx, dao.GrantMutation{
			Principal: p, Resource: doc,
			Values:    map[model.Permission]*bool{model.PermRead: ptr(false)},
			ChangedBy: "admin", ChangedAt: later.Add(time.Minute),
		})
		require.NoError(t, err)
		got, err = f.store.QueryChanges(f.ctx, model.ChangeFilter{ResourceID: doc.ID}, model.DefaultChangeSort(), 2, page1[1])
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, first[1].ID, got[0].ID)

		byName := model.ChangeSort{Field: model.SortByPermissionType, Direction: model.SortAsc}
		got, err = f.store.QueryChanges(f.ctx, model.ChangeFilter{ResourceID: doc.ID}, byName, 10, nil)
		require.NoError(t, err)
		require.Len(t, got, 4)
		rest, err := f.store.QueryChanges(f.ctx, model.ChangeFilter{ResourceID: doc.ID}, byName, 10, got[1])
		require.NoError(t, err)
		assert.Equal(t, got[2:], rest)
	})

	t.Run("QueryChanges_ResourceTypeFilter", func(t *testing.T) {
		f := setup(t)
		u := f.user(t, "lena")
		p := model.UserPrincipal(u.ID)
		id := f.id("r1")
		doc := model.ResourceRef{Type: model.ResourceDocument, ID: id}
		rep := model.ResourceRef{Type: model.ResourceReport, ID: id}
		require.NoError(t, f.store.CreateResource(f.ctx, &model.Resource{Type: doc.Type, ID: id, Name: "Umowa", Active: true}))
		require.NoError(t, f.store.CreateResource(f.ctx, &model.Resource{Type: rep.Type, ID: id, Name: "Bilans", Active: true}))

		f.apply(t, p, doc, map[model.Permission]*bool{model.PermRead: ptr(true)})
		f.apply(t, p, rep, map[model.Permission]*bool{model.PermPublish: ptr(true)})

		got, err := f.store.QueryChanges(f.ctx, model.ChangeFilter{ResourceType: model.ResourceDocument, ResourceID: id}, model.DefaultChangeSort(), 10, nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, model.PermRead, got[0].PermissionType)

		got, err = f.store.QueryChanges(f.ctx, model.ChangeFilter{ResourceID: id}, model.DefaultChangeSort(), 10, nil)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("Directory_NotFoundAndConflict", func(t *testing.T) {
		f := setup(t)
		u := f.user(t, "kasia")

		assert.ErrorIs(t, f.store.CreateUser(f.ctx, u), echo_errors.ErrUserConflict)
		_, err := f.store.GetUser(f.ctx, f.id("ghost"))
		assert.ErrorIs(t, err, echo_errors.ErrUserNotFound)
		_, err = f.store.GetGroup(f.ctx, f.id("ghost"))
		assert.ErrorIs(t, err, echo_errors.ErrGroupNotFound)
		_, err = f.store.GetResource(f.ctx, model.ResourceRef{Type: model.ResourceReport, ID: f.id("ghost")})
		assert.ErrorIs(t, err, echo_errors.ErrResourceNotFound)
		assert.ErrorIs(t, f.store.SetUserActive(f.ctx, f.id("ghost"), false), echo_errors.ErrUserNotFound)
	})
}
