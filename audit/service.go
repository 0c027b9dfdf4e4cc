// audit/service.go
package audit

import (
	"context"
	"errors"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

type Service interface {
	EnsureIndex(ctx context.Context) error
	IndexChanges(ctx context.Context, records ...*model.ChangeRecord) error
	QueryChanges(ctx context.Context, filter model.ChangeFilter, sort model.ChangeSort, limit int, after *model.ChangeRecord) ([]*model.ChangeRecord, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) EnsureIndex(ctx context.Context) error {
	return s.repo.EnsureIndex(ctx)
}

// IndexChanges indexes every record and returns the joined errors of the
// ones that failed.
func (s *service) IndexChanges(ctx context.Context, records ...*model.ChangeRecord) error {
	var errs []error
	for _, rec := range records {
		if err := s.repo.IndexChange(ctx, rec); err != nil {
			logger.Warn("Failed to index change record",
				zap.Error(err),
				zap.String("changeID", rec.ID),
				zap.Int64("seq", rec.Seq))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *service) QueryChanges(ctx context.Context, filter model.ChangeFilter, sort model.ChangeSort, limit int, after *model.ChangeRecord) ([]*model.ChangeRecord, error) {
	return s.repo.QueryChanges(ctx, filter, sort, limit, after)
}

// ChangeIndexer returns an event handler that copies committed change
// records into the search index.
func ChangeIndexer(s Service) util.EventHandler {
	return func(ctx context.Context, event util.Event) error {
		records, ok := event.Payload.([]*model.ChangeRecord)
		if !ok || len(records) == 0 {
			return nil
		}
		return s.IndexChanges(ctx, records...)
	}
}
