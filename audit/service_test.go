package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/accessledger/audit"
	"github.com/dev-mohitbeniwal/accessledger/model"
	"github.com/dev-mohitbeniwal/accessledger/test/mock"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

func record(id string, seq int64) *model.ChangeRecord {
	return &model.ChangeRecord{
		ID:             id,
		Seq:            seq,
		ResourceType:   model.ResourceDocument,
		ResourceID:     "doc-1",
		PrincipalID:    "u1",
		PrincipalType:  model.PrincipalUser,
		ChangeType:     model.ChangeAdd,
		PermissionType: model.PermRead,
		ChangedBy:      "admin",
		ChangedAt:      time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
	}
}

func TestService_IndexChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("IndexesEveryRecord", func(t *testing.T) {
		repo := new(mock.MockAuditRepository)
		repo.On("IndexChange", ctx, testifymock.AnythingOfType("*model.ChangeRecord")).Return(nil).Twice()

		err := audit.NewService(repo).IndexChanges(ctx, record("c1", 1), record("c2", 2))

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("JoinsFailures", func(t *testing.T) {
		repo := new(mock.MockAuditRepository)
		boom := errors.New("index down")
		first, second := record("c1", 1), record("c2", 2)
		repo.On("IndexChange", ctx, first).Return(boom)
		repo.On("IndexChange", ctx, second).Return(nil)

		err := audit.NewService(repo).IndexChanges(ctx, first, second)

		assert.ErrorIs(t, err, boom)
		repo.AssertNumberOfCalls(t, "IndexChange", 2)
	})
}

func TestService_QueryChangesDelegates(t *testing.T) {
	ctx := context.Background()
	repo := new(mock.MockAuditRepository)
	filter := model.ChangeFilter{ResourceID: "doc-1"}
	sort := model.DefaultChangeSort()
	after := record("c0", 7)
	want := []*model.ChangeRecord{record("c1", 1)}
	repo.On("QueryChanges", ctx, filter, sort, 10, after).Return(want, nil)

	got, err := audit.NewService(repo).QueryChanges(ctx, filter, sort, 10, after)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestChangeIndexer(t *testing.T) {
	ctx := context.Background()

	t.Run("IndexesRecordedChanges", func(t *testing.T) {
		repo := new(mock.MockAuditRepository)
		rec := record("c1", 1)
		repo.On("IndexChange", ctx, rec).Return(nil).Once()

		handler := audit.ChangeIndexer(audit.NewService(repo))
		err := handler(ctx, util.Event{Type: util.EventChangesRecorded, Payload: []*model.ChangeRecord{rec}})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("IgnoresOtherPayloads", func(t *testing.T) {
		repo := new(mock.MockAuditRepository)

		handler := audit.ChangeIndexer(audit.NewService(repo))
		err := handler(ctx, util.Event{Type: util.EventProfilePublished, Payload: &model.PortalSnapshot{}})

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "IndexChange", testifymock.Anything, testifymock.Anything)
	})
}
