// service/profile_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/accessledger/dao"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

//go:generate mockgen -source=profile_service.go -destination=../test/service_mock/profile_service_mock.go -package=mock_service

// IProfileService manages profiles and their publication to the portal
type IProfileService interface {
	CreateProfile(ctx context.Context, profile model.Profile, creatorID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, profile model.Profile, updaterID string) (*model.Profile, error)
	GetProfile(ctx context.Context, profileID string) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
	ResolveProfile(ctx context.Context, profileID string) ([]model.ProfileEntry, error)
	PublishProfile(ctx context.Context, profileID, publishedBy string) (*model.PublishResult, error)
	GetPublishedProfile(ctx context.Context, profileID string) (*model.PortalSnapshot, error)
}

type ProfileService struct {
	store          dao.Store
	validationUtil *util.ValidationUtil
	locker         util.Locker
	portal         util.PortalStore
	eventBus       *util.EventBus
	lockTTL        time.Duration
	now            func() time.Time
}

var _ IProfileService = &ProfileService{}

func NewProfileService(store dao.Store, validationUtil *util.ValidationUtil, locker util.Locker, portal util.PortalStore, eventBus *util.EventBus, lockTTL time.Duration) *ProfileService {
	return &ProfileService{
		store:          store,
		validationUtil: validationUtil,
		locker:         locker,
		portal:         portal,
		eventBus:       eventBus,
		lockTTL:        lockTTL,
		now:            time.Now,
	}
}

func profileLockName(profileID string) string {
	return "profile:" + profileID
}

// withProfileLock runs fn while holding the shared lock of the profile.
// Edits and publishes of one profile never overlap.
func (s *ProfileService) withProfileLock(ctx context.Context, profileID string, fn func() error) error {
	release, ok, err := s.locker.TryLock(ctx, profileLockName(profileID), s.lockTTL)
	if err != nil {
		return fmt.Errorf("%w: %v", echo_errors.ErrUnavailable, err)
	}
	if !ok {
		return echo_errors.ErrProfileLocked
	}
	defer release()
	return fn()
}

func (s *ProfileService) CreateProfile(ctx context.Context, profile model.Profile, creatorID string) (*model.Profile, error) {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if err := s.validationUtil.ValidateProfile(profile); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	profile.PublishedToPortal = false
	profile.LastPublished = nil
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := s.store.CreateProfile(ctx, &profile); err != nil {
		logger.Error("Error creating profile", zap.Error(err), zap.String("profileID", profile.ID), zap.String("creatorID", creatorID))
		return nil, err
	}
	logger.Info("Profile created successfully", zap.String("profileID", profile.ID), zap.String("creatorID", creatorID))
	return &profile, nil
}

// UpdateProfile replaces the profile definition. The portal keeps seeing the
// last published snapshot until the profile is published again.
func (s *ProfileService) UpdateProfile(ctx context.Context, profile model.Profile, updaterID string) (*model.Profile, error) {
	if err := s.validationUtil.ValidateProfile(profile); err != nil {
		return nil, err
	}

	var updated *model.Profile
	err := s.withProfileLock(ctx, profile.ID, func() error {
		profile.UpdatedAt = s.now().UTC()
		if err := s.store.UpdateProfile(ctx, &profile); err != nil {
			return err
		}
		var err error
		updated, err = s.store.GetProfile(ctx, profile.ID)
		return err
	})
	if err != nil {
		logger.Error("Error updating profile", zap.Error(err), zap.String("profileID", profile.ID), zap.String("updaterID", updaterID))
		return nil, err
	}

	s.eventBus.Publish(ctx, util.EventProfileUpdated, updated)
	logger.Info("Profile updated successfully", zap.String("profileID", profile.ID), zap.String("updaterID", updaterID))
	return updated, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, profileID string) (*model.Profile, error) {
	profile, err := s.store.GetProfile(ctx, profileID)
	if err != nil {
		if !errors.Is(err, echo_errors.ErrNotFound) {
			logger.Error("Error retrieving profile", zap.Error(err), zap.String("profileID", profileID))
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		logger.Error("Error listing profiles", zap.Error(err))
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// ResolveProfile returns the grants a profile implies: its own entries plus
// the direct grants of its mapped group. Entries for the same key are OR-ed.
func (s *ProfileService) ResolveProfile(ctx context.Context, profileID string) ([]model.ProfileEntry, error) {
	profile, err := s.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, profile)
}

func (s *ProfileService) resolve(ctx context.Context, profile *model.Profile) ([]model.ProfileEntry, error) {
	type entryKey struct {
		resourceType model.ResourceType
		resourceID   string
		permission   model.Permission
	}
	merged := make(map[entryKey]model.ProfileEntry, len(profile.Entries))
	add := func(e model.ProfileEntry) {
		k := entryKey{e.ResourceType, e.ResourceID, e.Permission}
		if prev, ok := merged[k]; ok {
			e.Value = e.Value || prev.Value
		}
		merged[k] = e
	}

	for _, e := range profile.Entries {
		add(e)
	}

	if profile.MappedGroupID != "" {
		group, err := s.store.GetGroup(ctx, profile.MappedGroupID)
		if err != nil && !errors.Is(err, echo_errors.ErrGroupNotFound) {
			return nil, err
		}
		if group != nil && group.Active {
			grants, err := s.store.ListDirectGrants(ctx, model.GroupPrincipal(group.ID))
			if err != nil {
				return nil, err
			}
			for _, g := range grants {
				add(model.ProfileEntry{
					ResourceType: g.Resource.Type,
					ResourceID:   g.Resource.ID,
					Permission:   g.Permission,
					Value:        g.Value,
				})
			}
		}
	}

	out := make([]model.ProfileEntry, 0, len(merged))
	for _, e := range merged {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ResourceType != b.ResourceType {
			return a.ResourceType < b.ResourceType
		}
		if a.ResourceID != b.ResourceID {
			return a.ResourceID < b.ResourceID
		}
		return a.Permission < b.Permission
	})
	return out, nil
}

// PublishProfile hands the resolved profile to the portal and then marks it
// published. If marking fails the portal gets its previous snapshot back, so
// either both the snapshot and the publish state change or neither does.
func (s *ProfileService) PublishProfile(ctx context.Context, profileID, publishedBy string) (*model.PublishResult, error) {
	var result *model.PublishResult
	var snapshot model.PortalSnapshot

	err := s.withProfileLock(ctx, profileID, func() error {
		profile, err := s.store.GetProfile(ctx, profileID)
		if err != nil {
			return err
		}
		entries, err := s.resolve(ctx, profile)
		if err != nil {
			return err
		}

		previous, err := s.portal.GetPortalSnapshot(ctx, profileID)
		if err != nil {
			return fmt.Errorf("%w: %v", echo_errors.ErrUnavailable, err)
		}

		at := s.now().UTC()
		snapshot = model.PortalSnapshot{
			ProfileID:     profile.ID,
			Name:          profile.Name,
			Description:   profile.Description,
			MappedGroupID: profile.MappedGroupID,
			Entries:       entries,
			PublishedAt:   at,
			PublishedBy:   publishedBy,
		}
		if err := s.portal.SetPortalSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("%w: %v", echo_errors.ErrUnavailable, err)
		}

		published, err := s.store.MarkPublished(ctx, profileID, at)
		if err != nil {
			s.restorePortalSnapshot(ctx, profileID, previous)
			return err
		}

		result = &model.PublishResult{
			ProfileID:         published.ID,
			PublishedToPortal: published.PublishedToPortal,
			LastPublished:     at,
			Entries:           entries,
		}
		return nil
	})
	if err != nil {
		logger.Error("Error publishing profile", zap.Error(err), zap.String("profileID", profileID), zap.String("publishedBy", publishedBy))
		return nil, err
	}

	s.eventBus.Publish(ctx, util.EventProfilePublished, &snapshot)
	logger.Info("Profile published to portal",
		zap.String("profileID", profileID),
		zap.Int("entries", len(result.Entries)),
		zap.String("publishedBy", publishedBy))
	return result, nil
}

func (s *ProfileService) restorePortalSnapshot(ctx context.Context, profileID string, previous *model.PortalSnapshot) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if previous == nil {
		err = s.portal.DeletePortalSnapshot(ctx, profileID)
	} else {
		err = s.portal.SetPortalSnapshot(ctx, *previous)
	}
	if err != nil {
		logger.Error("Failed to restore portal snapshot", zap.Error(err), zap.String("profileID", profileID))
	}
}

// GetPublishedProfile returns what the portal currently sees of a profile.
func (s *ProfileService) GetPublishedProfile(ctx context.Context, profileID string) (*model.PortalSnapshot, error) {
	snapshot, err := s.portal.GetPortalSnapshot(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", echo_errors.ErrUnavailable, err)
	}
	if snapshot == nil {
		if _, err := s.store.GetProfile(ctx, profileID); err != nil {
			return nil, err
		}
		return nil, echo_errors.ErrProfileNotPublished
	}
	return snapshot, nil
}
