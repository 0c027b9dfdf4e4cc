// service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/accessledger/dao"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

//go:generate mockgen -source=user_service.go -destination=../test/service_mock/user_service_mock.go -package=mock_service

// IUserService defines the interface for user operations
type IUserService interface {
	CreateUser(ctx context.Context, user model.User, creatorID string) (*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error)
	SetUserActive(ctx context.Context, userID string, active bool, updaterID string) error
	AssignProfile(ctx context.Context, userID, profileID, changedBy string) ([]*model.ChangeRecord, error)
}

// UserService handles business logic for user operations
type UserService struct {
	store          dao.Store
	validationUtil *util.ValidationUtil
	locks          *util.KeyedLocker
	eventBus       *util.EventBus
}

var _ IUserService = &UserService{}

// NewUserService creates a new instance of UserService
func NewUserService(store dao.Store, validationUtil *util.ValidationUtil, locks *util.KeyedLocker, eventBus *util.EventBus) *UserService {
	return &UserService{
		store:          store,
		validationUtil: validationUtil,
		locks:          locks,
		eventBus:       eventBus,
	}
}

// CreateUser handles the creation of a new user
func (s *UserService) CreateUser(ctx context.Context, user model.User, creatorID string) (*model.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Source == "" {
		user.Source = model.UserSourceLocal
	}
	if err := s.validationUtil.ValidateUser(user); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.Active = true
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.store.CreateUser(ctx, &user); err != nil {
		logger.Error("Error creating user", zap.Error(err), zap.String("userID", user.ID), zap.String("creatorID", creatorID))
		return nil, err
	}

	logger.Info("User created successfully", zap.String("userID", user.ID), zap.String("creatorID", creatorID))
	return &user, nil
}

// GetUser retrieves a user by its ID
func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, echo_errors.ErrNotFound) {
			logger.Error("Error retrieving user", zap.Error(err), zap.String("userID", userID))
		}
		return nil, err
	}
	return user, nil
}

// ListUsers retrieves users with pagination
func (s *UserService) ListUsers(ctx context.Context, limit int, offset int) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx, limit, offset)
	if err != nil {
		logger.Error("Error listing users", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetUserActive soft-deactivates or reactivates a user. Its grants and
// history stay in place, but an inactive user holds no effective permission.
func (s *UserService) SetUserActive(ctx context.Context, userID string, active bool, updaterID string) error {
	if err := s.store.SetUserActive(ctx, userID, active); err != nil {
		logger.Error("Error changing user state", zap.Error(err), zap.String("userID", userID), zap.Bool("active", active))
		return err
	}
	logger.Info("User state changed", zap.String("userID", userID), zap.Bool("active", active), zap.String("updaterID", updaterID))
	return nil
}

// AssignProfile sets or clears the user's profile. A profile with a mapped
// group also makes the user a member of that group. Users synced from the
// portal are read-only here.
func (s *UserService) AssignProfile(ctx context.Context, userID, profileID, changedBy string) ([]*model.ChangeRecord, error) {
	unlock := s.locks.Lock("user:" + userID)
	defer unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Source == model.UserSourcePortal {
		return nil, fmt.Errorf("%w: %s", echo_errors.ErrPortalManagedUser, userID)
	}

	var profile *model.Profile
	if profileID != "" {
		if profile, err = s.store.GetProfile(ctx, profileID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	var records []*model.ChangeRecord
	rec, err := s.store.AssignProfile(ctx, dao.ProfileAssignment{
		UserID:    userID,
		ProfileID: profileID,
		ChangedBy: changedBy,
		ChangedAt: now,
	})
	if err != nil {
		logger.Error("Error assigning profile", zap.Error(err), zap.String("userID", userID), zap.String("profileID", profileID))
		return nil, err
	}
	if rec != nil {
		records = append(records, rec)
	}

	if profile != nil && profile.MappedGroupID != "" {
		member, err := s.store.AddMember(ctx, dao.MembershipChange{
			GroupID:   profile.MappedGroupID,
			UserID:    userID,
			ChangedBy: changedBy,
			ChangedAt: now,
		})
		if err != nil {
			logger.Error("Error joining profile group",
				zap.Error(err),
				zap.String("userID", userID),
				zap.String("groupID", profile.MappedGroupID))
			s.publishChanges(ctx, records)
			return records, err
		}
		if member != nil {
			records = append(records, member)
		}
	}

	s.publishChanges(ctx, records)
	logger.Info("Profile assigned",
		zap.String("userID", userID),
		zap.String("profileID", profileID),
		zap.Int("changes", len(records)),
		zap.String("changedBy", changedBy))
	return records, nil
}

func (s *UserService) publishChanges(ctx context.Context, records []*model.ChangeRecord) {
	if len(records) > 0 {
		s.eventBus.Publish(ctx, util.EventChangesRecorded, records)
	}
}
