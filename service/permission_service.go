// service/permission_service.go
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/accessledger/dao"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/pdp/engine"
	pdp_model "github.com/dev-mohitbeniwal/accessledger/pdp/model"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

//go:generate mockgen -source=permission_service.go -destination=../test/service_mock/permission_service_mock.go -package=mock_service

// IPermissionService answers effective-permission questions
type IPermissionService interface {
	EffectivePermission(ctx context.Context, req pdp_model.AccessRequest) (model.Decision, error)
	BulkEffectivePermissions(ctx context.Context, userID string, ref model.ResourceRef) (map[model.Permission]model.Decision, error)
}

// PermissionService reads a fresh snapshot for every call. Nothing is cached.
type PermissionService struct {
	store          dao.SnapshotReader
	evaluator      *engine.PermissionEvaluator
	validationUtil *util.ValidationUtil
	locks          *util.KeyedLocker
}

var _ IPermissionService = &PermissionService{}

func NewPermissionService(store dao.SnapshotReader, evaluator *engine.PermissionEvaluator, validationUtil *util.ValidationUtil, locks *util.KeyedLocker) *PermissionService {
	return &PermissionService{
		store:          store,
		evaluator:      evaluator,
		validationUtil: validationUtil,
		locks:          locks,
	}
}

func (s *PermissionService) EffectivePermission(ctx context.Context, req pdp_model.AccessRequest) (model.Decision, error) {
	if err := s.validationUtil.ValidateResourceRef(req.Resource); err != nil {
		return model.Decision{}, err
	}
	if err := s.validationUtil.ValidatePermission(req.Resource.Type, req.Permission); err != nil {
		return model.Decision{}, err
	}

	snap, err := s.snapshot(ctx, req.UserID, req.Resource)
	if err != nil {
		return model.Decision{}, err
	}
	return s.evaluator.Evaluate(snap, req.Permission), nil
}

// BulkEffectivePermissions evaluates the whole vocabulary against one
// snapshot, so the result equals repeated single calls made at that moment.
func (s *PermissionService) BulkEffectivePermissions(ctx context.Context, userID string, ref model.ResourceRef) (map[model.Permission]model.Decision, error) {
	if err := s.validationUtil.ValidateResourceRef(ref); err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	return s.evaluator.EvaluateAll(snap), nil
}

func (s *PermissionService) snapshot(ctx context.Context, userID string, ref model.ResourceRef) (*model.EvaluationSnapshot, error) {
	unlock := s.locks.RLock(grantKey(model.UserPrincipal(userID), ref))
	defer unlock()

	start := time.Now()
	snap, err := s.store.EvaluationSnapshot(ctx, userID, ref)
	if err != nil {
		if !errors.Is(err, echo_errors.ErrNotFound) {
			logger.Error("Error reading evaluation snapshot", zap.Error(err), zap.String("userID", userID), zap.String("resource", ref.Key()))
		}
		return nil, err
	}
	logger.Debug("Evaluation snapshot read",
		zap.String("userID", userID),
		zap.String("resource", ref.Key()),
		zap.Int("groups", len(snap.Groups)),
		zap.Duration("duration", time.Since(start)))
	return snap, nil
}
