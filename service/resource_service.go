// service/resource_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/accessledger/dao"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

//go:generate mockgen -source=resource_service.go -destination=../test/service_mock/resource_service_mock.go -package=mock_service

// IResourceService defines the interface for resource operations
type IResourceService interface {
	CreateResource(ctx context.Context, resource model.Resource, creatorID string) (*model.Resource, error)
	GetResource(ctx context.Context, ref model.ResourceRef) (*model.Resource, error)
	ListResources(ctx context.Context, resourceType model.ResourceType, limit, offset int) ([]*model.Resource, error)
	SetResourceActive(ctx context.Context, ref model.ResourceRef, active bool, updaterID string) error
	Vocabulary(resourceType model.ResourceType) ([]model.PermissionDefinition, error)
}

// ResourceService handles business logic for resource operations
type ResourceService struct {
	store          dao.DirectoryStore
	validationUtil *util.ValidationUtil
}

var _ IResourceService = &ResourceService{}

// NewResourceService creates a new instance of ResourceService
func NewResourceService(store dao.DirectoryStore, validationUtil *util.ValidationUtil) *ResourceService {
	return &ResourceService{
		store:          store,
		validationUtil: validationUtil,
	}
}

// CreateResource registers a resource so that grants can reference it
func (s *ResourceService) CreateResource(ctx context.Context, resource model.Resource, creatorID string) (*model.Resource, error) {
	if err := s.validationUtil.ValidateResource(resource); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resource.Active = true
	resource.CreatedAt = now
	resource.UpdatedAt = now

	if err := s.store.CreateResource(ctx, &resource); err != nil {
		logger.Error("Error creating resource", zap.Error(err), zap.String("resource", resource.Ref().Key()), zap.String("creatorID", creatorID))
		return nil, err
	}

	logger.Info("Resource created successfully", zap.String("resource", resource.Ref().Key()), zap.String("creatorID", creatorID))
	return &resource, nil
}

// GetResource retrieves a resource by type and ID
func (s *ResourceService) GetResource(ctx context.Context, ref model.ResourceRef) (*model.Resource, error) {
	if err := s.validationUtil.ValidateResourceRef(ref); err != nil {
		return nil, err
	}
	resource, err := s.store.GetResource(ctx, ref)
	if err != nil {
		if !errors.Is(err, echo_errors.ErrNotFound) {
			logger.Error("Error retrieving resource", zap.Error(err), zap.String("resource", ref.Key()))
		}
		return nil, err
	}
	return resource, nil
}

// ListResources retrieves resources, optionally of one type only
func (s *ResourceService) ListResources(ctx context.Context, resourceType model.ResourceType, limit, offset int) ([]*model.Resource, error) {
	if resourceType != "" && !resourceType.Grantable() {
		return nil, fmt.Errorf("%w: %s", echo_errors.ErrInvalidResourceType, resourceType)
	}
	resources, err := s.store.ListResources(ctx, resourceType, limit, offset)
	if err != nil {
		logger.Error("Error listing resources", zap.Error(err), zap.String("type", string(resourceType)))
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, nil
}

func (s *ResourceService) SetResourceActive(ctx context.Context, ref model.ResourceRef, active bool, updaterID string) error {
	if err := s.validationUtil.ValidateResourceRef(ref); err != nil {
		return err
	}
	if err := s.store.SetResourceActive(ctx, ref, active); err != nil {
		logger.Error("Error changing resource state", zap.Error(err), zap.String("resource", ref.Key()), zap.Bool("active", active))
		return err
	}
	logger.Info("Resource state changed", zap.String("resource", ref.Key()), zap.Bool("active", active), zap.String("updaterID", updaterID))
	return nil
}

// Vocabulary lists the permissions a resource type can carry
func (s *ResourceService) Vocabulary(resourceType model.ResourceType) ([]model.PermissionDefinition, error) {
	defs, ok := model.Vocabulary(resourceType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", echo_errors.ErrInvalidResourceType, resourceType)
	}
	return defs, nil
}
