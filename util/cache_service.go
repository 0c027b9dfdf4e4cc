// util/cache_service.go

package util

import (
	"context"

	"github.com/dev-mohitbeniwal/accessledger/db"
	"github.com/dev-mohitbeniwal/accessledger/model"
)

// PortalStore holds the portal's published view of each profile.
type PortalStore interface {
	GetPortalSnapshot(ctx context.Context, profileID string) (*model.PortalSnapshot, error)
	SetPortalSnapshot(ctx context.Context, snapshot model.PortalSnapshot) error
	DeletePortalSnapshot(ctx context.Context, profileID string) error
}

type CacheService struct{}

var _ PortalStore = &CacheService{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetPortalSnapshot(ctx context.Context, profileID string) (*model.PortalSnapshot, error) {
	return db.GetCachedPortalSnapshot(ctx, profileID)
}

func (c *CacheService) SetPortalSnapshot(ctx context.Context, snapshot model.PortalSnapshot) error {
	return db.CachePortalSnapshot(ctx, &snapshot)
}

func (c *CacheService) DeletePortalSnapshot(ctx context.Context, profileID string) error {
	return db.DeleteCachedPortalSnapshot(ctx, profileID)
}
