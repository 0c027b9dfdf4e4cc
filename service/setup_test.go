package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/accessledger/dao"
	"github.com/dev-mohitbeniwal/accessledger/db"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/service"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

const admin = "admin@example.com"

type testEnv struct {
	store    *dao.MemoryStore
	services *service.Services
	redis    *miniredis.Miniredis
	ctx      context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	previous := db.RedisClient
	db.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		db.RedisClient.Close()
		db.RedisClient = previous
	})

	store := dao.NewMemoryStore()
	services, err := service.InitializeServices(
		store,
		util.NewValidationUtil(),
		util.NewLockService(),
		util.NewCacheService(),
		util.NewEventBus(),
		service.Options{
			HistoryPageSize: 2,
			HistoryLocation: time.UTC,
			ProfileLockTTL:  time.Minute,
		},
	)
	require.NoError(t, err)

	return &testEnv{store: store, services: services, redis: mr, ctx: context.Background()}
}

func (e *testEnv) user(t *testing.T, id, name string) *model.User {
	t.Helper()
	u, err := e.services.User.CreateUser(e.ctx, model.User{ID: id, Name: name, Email: id + "@example.com"}, admin)
	require.NoError(t, err)
	return u
}

func (e *testEnv) group(t *testing.T, id, name string) *model.Group {
	t.Helper()
	g, err := e.services.Group.CreateGroup(e.ctx, model.Group{ID: id, Name: name}, admin)
	require.NoError(t, err)
	return g
}

func (e *testEnv) resource(t *testing.T, rt model.ResourceType, id, name string) model.ResourceRef {
	t.Helper()
	r, err := e.services.Resource.CreateResource(e.ctx, model.Resource{Type: rt, ID: id, Name: name}, admin)
	require.NoError(t, err)
	return r.Ref()
}

func collect(t *testing.T, e *testEnv, filter model.ChangeFilter, sort model.ChangeSort) []*model.ChangeRecord {
	t.Helper()
	seq, err := e.services.History.Query(e.ctx, filter, sort)
	require.NoError(t, err)
	var out []*model.ChangeRecord
	for rec, err := range seq {
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}
