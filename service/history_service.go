// service/history_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/accessledger/audit"
	"github.com/dev-mohitbeniwal/accessledger/dao"
	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

//go:generate mockgen -source=history_service.go -destination=../test/service_mock/history_service_mock.go -package=mock_service

// IHistoryService reads and extends the permission change log
type IHistoryService interface {
	Record(ctx context.Context, rec *model.ChangeRecord) error
	Query(ctx context.Context, filter model.ChangeFilter, sort model.ChangeSort) (iter.Seq2[*model.ChangeRecord, error], error)
	ExportCSV(ctx context.Context, filter model.ChangeFilter, w io.Writer) error
}

type HistoryService struct {
	log      dao.ChangeLogStore
	reader   dao.ChangeReader
	eventBus *util.EventBus
	pageSize int
	location *time.Location
}

var _ IHistoryService = &HistoryService{}

// NewHistoryService reads history through reader, which is either the store
// itself or the search index. Writes always go to the store.
func NewHistoryService(log dao.ChangeLogStore, reader dao.ChangeReader, eventBus *util.EventBus, pageSize int, location *time.Location) *HistoryService {
	if reader == nil {
		reader = log
	}
	if pageSize <= 0 {
		pageSize = 200
	}
	if location == nil {
		location = time.UTC
	}
	return &HistoryService{
		log:      log,
		reader:   reader,
		eventBus: eventBus,
		pageSize: pageSize,
		location: location,
	}
}

// Record appends one change. A change log that cannot be written is
// reported to the caller.
func (s *HistoryService) Record(ctx context.Context, rec *model.ChangeRecord) error {
	if rec.ChangedAt.IsZero() {
		rec.ChangedAt = time.Now().UTC()
	}
	if err := s.log.AppendChange(ctx, rec); err != nil {
		logger.Error("Error recording change", zap.Error(err), zap.String("principalID", rec.PrincipalID))
		return err
	}
	s.eventBus.Publish(ctx, util.EventChangesRecorded, []*model.ChangeRecord{rec})
	return nil
}

// Query validates its arguments and returns a lazy sequence over the
// matching records. Each range over the sequence starts again from the
// first page.
func (s *HistoryService) Query(ctx context.Context, filter model.ChangeFilter, sort model.ChangeSort) (iter.Seq2[*model.ChangeRecord, error], error) {
	if !sort.Valid() {
		return nil, fmt.Errorf("%w: %s %s", echo_errors.ErrInvalidSort, sort.Field, sort.Direction)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, echo_errors.ErrInvalidDateRange
	}
	return s.pages(ctx, filter, sort), nil
}

// pages walks the reader one page at a time. Each page continues after the
// last record of the previous one.
func (s *HistoryService) pages(ctx context.Context, filter model.ChangeFilter, sort model.ChangeSort) iter.Seq2[*model.ChangeRecord, error] {
	return func(yield func(*model.ChangeRecord, error) bool) {
		var after *model.ChangeRecord
		for {
			page, err := s.reader.QueryChanges(ctx, filter, sort, s.pageSize, after)
			if err != nil {
				logger.Error("Error querying change history", zap.Error(err))
				yield(nil, err)
				return
			}
			for _, rec := range page {
				if !yield(rec, nil) {
					return
				}
			}
			if len(page) < s.pageSize {
				return
			}
			after = page[len(page)-1]
		}
	}
}

// ExportCSV writes the history matching filter in the default order.
func (s *HistoryService) ExportCSV(ctx context.Context, filter model.ChangeFilter, w io.Writer) error {
	records, err := s.Query(ctx, filter, model.DefaultChangeSort())
	if err != nil {
		return err
	}
	if err := audit.WriteCSV(w, records, s.location); err != nil {
		logger.Error("Error exporting change history", zap.Error(err))
		return err
	}
	return nil
}
