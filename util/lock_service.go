// util/lock_service.go

package util

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/accessledger/db"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
)

// Locker hands out named, expiring locks shared between instances.
type Locker interface {
	// TryLock returns a release func, or ok=false when another holder has it.
	TryLock(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

type LockService struct{}

var _ Locker = &LockService{}

func NewLockService() *LockService {
	return &LockService{}
}

func (l *LockService) TryLock(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	token, err := db.LockResource(ctx, name, ttl)
	if err != nil {
		return nil, false, err
	}
	if token == "" {
		return nil, false, nil
	}
	release := func() {
		if err := db.UnlockResource(context.WithoutCancel(ctx), name, token); err != nil {
			logger.Warn("Failed to release lock", zap.String("lock", name), zap.Error(err))
		}
	}
	return release, true, nil
}
