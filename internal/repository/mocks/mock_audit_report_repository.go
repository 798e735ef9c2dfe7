package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"opaque/internal/model"
	"opaque/internal/repository"
)

type MockAuditReportRepository struct {
	mock.Mock
}

func (m *MockAuditReportRepository) Create(ctx context.Context, rep *model.AuditReport) (*model.AuditReport, error) {
	args := m.Called(ctx, rep)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditReport), args.Error(1)
}

func (m *MockAuditReportRepository) FindByID(ctx context.Context, id string) (*model.AuditReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditReport), args.Error(1)
}

func (m *MockAuditReportRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.AuditReport], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AuditReport]), args.Error(1)
}
