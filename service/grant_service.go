// service/grant_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/accessledger/dao"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

//go:generate mockgen -source=grant_service.go -destination=../test/service_mock/grant_service_mock.go -package=mock_service

// IGrantService defines the mutations and lookups on direct grants
type IGrantService interface {
	SetDirectGrant(ctx context.Context, p model.Principal, r model.ResourceRef, perm model.Permission, value bool, changedBy string) (*model.ChangeRecord, error)
	Grant(ctx context.Context, p model.Principal, r model.ResourceRef, perm model.Permission, changedBy string) (*model.ChangeRecord, error)
	Revoke(ctx context.Context, p model.Principal, r model.ResourceRef, perm model.Permission, changedBy string) (*model.ChangeRecord, error)
	ClearDirectGrant(ctx context.Context, p model.Principal, r model.ResourceRef, perm model.Permission, changedBy string) (*model.ChangeRecord, error)
	SetDirectGrants(ctx context.Context, p model.Principal, r model.ResourceRef, values map[model.Permission]*bool, changedBy string) ([]*model.ChangeRecord, error)
	GetDirectGrants(ctx context.Context, p model.Principal, r model.ResourceRef) (map[model.Permission]bool, error)
	ListDirectGrants(ctx context.Context, p model.Principal) ([]model.Grant, error)
}

// GrantService serializes mutations per (principal, resource) and publishes
// the committed change records.
type GrantService struct {
	store          dao.GrantStore
	validationUtil *util.ValidationUtil
	locks          *util.KeyedLocker
	eventBus       *util.EventBus
	now            func() time.Time
}

var _ IGrantService = &GrantService{}

func NewGrantService(store dao.GrantStore, validationUtil *util.ValidationUtil, locks *util.KeyedLocker, eventBus *util.EventBus) *GrantService {
	return &GrantService{
		store:          store,
		validationUtil: validationUtil,
		locks:          locks,
		eventBus:       eventBus,
		now:            time.Now,
	}
}

// grantKey is the lock key shared by grant mutations and engine reads.
func grantKey(p model.Principal, r model.ResourceRef) string {
	return p.Key() + "|" + r.Key()
}

// SetDirectGrant overwrites the direct grant. It returns nil when the grant
// already holds value.
func (s *GrantService) SetDirectGrant(ctx context.Context, p model.Principal, r model.ResourceRef, perm model.Permission, value bool, changedBy string) (*model.ChangeRecord, error) {
	records, err := s.SetDirectGrants(ctx, p, r, map[model.Permission]*bool{perm: &value}, changedBy)
	if err != nil {
		return nil, err
	}
	return firstRecord(records), nil
}

func (s *GrantService) Grant(ctx context.Context, p model.Principal, r model.ResourceRef, perm model.Permission, changedBy string) (*model.ChangeRecord, error) {
	return s.SetDirectGrant(ctx, p, r, perm, true, changedBy)
}

func (s *GrantService) Revoke(ctx context.Context, p model.Principal, r model.ResourceRef, perm model.Permission, changedBy string) (*model.ChangeRecord, error) {
	return s.SetDirectGrant(ctx, p, r, perm, false, changedBy)
}

// ClearDirectGrant drops the direct override so that group and profile
// grants apply again.
func (s *GrantService) ClearDirectGrant(ctx context.Context, p model.Principal, r model.ResourceRef, perm model.Permission, changedBy string) (*model.ChangeRecord, error) {
	records, err := s.SetDirectGrants(ctx, p, r, map[model.Permission]*bool{perm: nil}, changedBy)
	if err != nil {
		return nil, err
	}
	return firstRecord(records), nil
}

// SetDirectGrants applies several bits of one (principal, resource) pair in a
// single store transaction. A nil value clears that bit.
func (s *GrantService) SetDirectGrants(ctx context.Context, p model.Principal, r model.ResourceRef, values map[model.Permission]*bool, changedBy string) ([]*model.ChangeRecord, error) {
	if err := s.validateKey(p, r); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no permissions given", echo_errors.ErrInvalidGrantData)
	}
	for perm := range values {
		if err := s.validationUtil.ValidatePermission(r.Type, perm); err != nil {
			return nil, err
		}
	}

	unlock := s.locks.Lock(grantKey(p, r))
	defer unlock()

	start := time.Now()
	records, err := s.store.ApplyGrants(ctx, dao.GrantMutation{
		Principal: p,
		Resource:  r,
		Values:    values,
		ChangedBy: changedBy,
		ChangedAt: s.now().UTC(),
	})
	if err != nil {
		logger.Error("Error applying direct grants",
			zap.Error(err),
			zap.String("principal", p.Key()),
			zap.String("resource", r.Key()),
			zap.String("changedBy", changedBy))
		return nil, err
	}

	if len(records) > 0 {
		s.eventBus.Publish(ctx, util.EventChangesRecorded, records)
	}
	logger.Info("Direct grants applied",
		zap.String("principal", p.Key()),
		zap.String("resource", r.Key()),
		zap.Int("changes", len(records)),
		zap.String("changedBy", changedBy),
		zap.Duration("duration", time.Since(start)))
	return records, nil
}

func (s *GrantService) GetDirectGrants(ctx context.Context, p model.Principal, r model.ResourceRef) (map[model.Permission]bool, error) {
	if err := s.validateKey(p, r); err != nil {
		return nil, err
	}
	grants, err := s.store.GetDirectGrants(ctx, p, r)
	if err != nil {
		logger.Error("Error retrieving direct grants", zap.Error(err), zap.String("principal", p.Key()), zap.String("resource", r.Key()))
		return nil, err
	}
	return grants, nil
}

func (s *GrantService) ListDirectGrants(ctx context.Context, p model.Principal) ([]model.Grant, error) {
	if err := s.validationUtil.ValidatePrincipal(p); err != nil {
		return nil, err
	}
	grants, err := s.store.ListDirectGrants(ctx, p)
	if err != nil {
		logger.Error("Error listing direct grants", zap.Error(err), zap.String("principal", p.Key()))
		return nil, err
	}
	return grants, nil
}

func (s *GrantService) validateKey(p model.Principal, r model.ResourceRef) error {
	if err := s.validationUtil.ValidatePrincipal(p); err != nil {
		return err
	}
	return s.validationUtil.ValidateResourceRef(r)
}

func firstRecord(records []*model.ChangeRecord) *model.ChangeRecord {
	if len(records) == 0 {
		return nil
	}
	return records[0]
}
