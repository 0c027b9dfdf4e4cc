// test/mock/audit.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/accessledger/model"
)

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) EnsureIndex(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuditRepository) IndexChange(ctx context.Context, rec *model.ChangeRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockAuditRepository) QueryChanges(ctx context.Context, filter model.ChangeFilter, sort model.ChangeSort, limit int, after *model.ChangeRecord) ([]*model.ChangeRecord, error) {
	args := m.Called(ctx, filter, sort, limit, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChangeRecord), args.Error(1)
}
