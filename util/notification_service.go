// util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
)

type NotificationService struct {
	// A message queue client would go here once the portal consumes pushes.
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyProfilePublished(ctx context.Context, snapshot model.PortalSnapshot) error {
	logger.Info("NOTIFICATION: Profile published to portal",
		zap.String("profileID", snapshot.ProfileID),
		zap.String("profileName", snapshot.Name),
		zap.Int("entries", len(snapshot.Entries)),
		zap.Time("publishedAt", snapshot.PublishedAt),
		zap.String("publishedBy", snapshot.PublishedBy))
	return nil
}

func (n *NotificationService) NotifyPermissionChanges(ctx context.Context, records []*model.ChangeRecord) error {
	for _, rec := range records {
		logger.Info("Notifying permission change",
			zap.String("changeType", string(rec.ChangeType)),
			zap.String("principalID", rec.PrincipalID),
			zap.String("resource", string(rec.ResourceType)+":"+rec.ResourceID),
			zap.String("permission", string(rec.PermissionType)),
			zap.String("changedBy", rec.ChangedBy))
	}
	return nil
}

// Handlers returns the event subscriptions this service listens to.
func (n *NotificationService) Handlers() map[string]EventHandler {
	return map[string]EventHandler{
		EventProfilePublished: func(ctx context.Context, e Event) error {
			snapshot, ok := e.Payload.(*model.PortalSnapshot)
			if !ok {
				return nil
			}
			return n.NotifyProfilePublished(ctx, *snapshot)
		},
		EventChangesRecorded: func(ctx context.Context, e Event) error {
			records, ok := e.Payload.([]*model.ChangeRecord)
			if !ok {
				return nil
			}
			return n.NotifyPermissionChanges(ctx, records)
		},
	}
}
