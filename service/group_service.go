// service/group_service.go
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

//go:generate mockgen -source=group_service.go -destination=../test/service_mock/group_service_mock.go -package=mock_service

// IGroupService defines the interface for group operations
type IGroupService interface {
	CreateGroup(ctx context.Context, group model.Group, creatorID string) (*model.Group, error)
	GetGroup(ctx context.Context, groupID string) (*model.Group, error)
	ListGroups(ctx context.Context, limit int, offset int) ([]*model.Group, error)
	SetGroupActive(ctx context.Context, groupID string, active bool, updaterID string) error
	AddMember(ctx context.Context, groupID, userID, changedBy string) (*model.ChangeRecord, error)
	RemoveMember(ctx context.Context, groupID, userID, changedBy string) (*model.ChangeRecord, error)
	ListMembers(ctx context.Context, groupID string) ([]*model.User, error)
}

// GroupService handles business logic for group operations
type GroupService struct {
	store          dao.DirectoryStore
	validationUtil *util.ValidationUtil
	eventBus       *util.EventBus
}

var _ IGroupService = &GroupService{}

// NewGroupService creates a new instance of GroupService
func NewGroupService(store dao.DirectoryStore, validationUtil *util.ValidationUtil, eventBus *util.EventBus) *GroupService {
	return &GroupService{
		store:          store,
		validationUtil: validationUtil,
		eventBus:       eventBus,
	}
}

// CreateGroup handles the creation of a new group. Initial members are added
// one by one so that each join is recorded.
func (s *GroupService) CreateGroup(ctx context.Context, group model.Group, creatorID string) (*model.Group, error) {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if err := s.validationUtil.ValidateGroup(group); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	group.Active = true
	group.CreatedAt = now
	group.UpdatedAt = now
	members := group.MemberIDs
	group.MemberIDs = nil

	if err := s.store.CreateGroup(ctx, &group); err != nil {
		logger.Error("Error creating group", zap.Error(err), zap.String("groupID", group.ID), zap.String("creatorID", creatorID))
		return nil, err
	}

	for _, userID := range members {
		if _, err := s.AddMember(ctx, group.ID, userID, creatorID); err != nil {
			return nil, fmt.Errorf("group %s created but member %s was not added: %w", group.ID, userID, err)
		}
	}

	logger.Info("Group created successfully", zap.String("groupID", group.ID), zap.String("creatorID", creatorID))
	return s.store.GetGroup(ctx, group.ID)
}

// GetGroup retrieves a group by its ID
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*model.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if !errors.Is(err, echo_errors.ErrNotFound) {
			logger.Error("Error retrieving group", zap.Error(err), zap.String("groupID", groupID))
		}
		return nil, err
	}
	return group, nil
}

// ListGroups retrieves groups with pagination
func (s *GroupService) ListGroups(ctx context.Context, limit int, offset int) ([]*model.Group, error) {
	groups, err := s.store.ListGroups(ctx, limit, offset)
	if err != nil {
		logger.Error("Error listing groups", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (s *GroupService) SetGroupActive(ctx context.Context, groupID string, active bool, updaterID string) error {
	if err := s.store.SetGroupActive(ctx, groupID, active); err != nil {
		logger.Error("Error changing group state", zap.Error(err), zap.String("groupID", groupID), zap.Bool("active", active))
		return err
	}
	logger.Info("Group state changed", zap.String("groupID", groupID), zap.Bool("active", active), zap.String("updaterID", updaterID))
	return nil
}

// AddMember is idempotent: it returns a nil record when the user is
// already a member.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID, changedBy string) (*model.ChangeRecord, error) {
	return s.changeMembership(ctx, groupID, userID, changedBy, true)
}

// RemoveMember is idempotent: it returns a nil record when the user is not
// a member.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID, changedBy string) (*model.ChangeRecord, error) {
	return s.changeMembership(ctx, groupID, userID, changedBy, false)
}

func (s *GroupService) changeMembership(ctx context.Context, groupID, userID, changedBy string, add bool) (*model.ChangeRecord, error) {
	c := dao.MembershipChange{
		GroupID:   groupID,
		UserID:    userID,
		ChangedBy: changedBy,
		ChangedAt: time.Now().UTC(),
	}

	var rec *model.ChangeRecord
	var err error
	if add {
		rec, err = s.store.AddMember(ctx, c)
	} else {
		rec, err = s.store.RemoveMember(ctx, c)
	}
	if err != nil {
		logger.Error("Error changing group membership",
			zap.Error(err),
			zap.String("groupID", groupID),
			zap.String("userID", userID),
			zap.Bool("add", add))
		return nil, err
	}
	if rec == nil {
		logger.Debug("Membership already in requested state", zap.String("groupID", groupID), zap.String("userID", userID), zap.Bool("member", add))
		return nil, nil
	}

	s.eventBus.Publish(ctx, util.EventChangesRecorded, []*model.ChangeRecord{rec})
	logger.Info("Group membership changed",
		zap.String("groupID", groupID),
		zap.String("userID", userID),
		zap.String("changeType", string(rec.ChangeType)),
		zap.String("changedBy", changedBy))
	return rec, nil
}

// ListMembers returns the users of a group in member id order.
func (s *GroupService) ListMembers(ctx context.Context, groupID string) ([]*model.User, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	users := make([]*model.User, 0, len(group.MemberIDs))
	for _, id := range group.MemberIDs {
		u, err := s.store.GetUser(ctx, id)
		if err != nil {
			if errors.Is(err, echo_errors.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
