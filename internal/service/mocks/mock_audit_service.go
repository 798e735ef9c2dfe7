package mocks

import (
	"context"

	"opaque/internal/model"
	"opaque/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Run(ctx context.Context, files []service.AuditFile) (*service.AuditRunResult, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuditRunResult), args.Error(1)
}

func (m *MockAuditService) Get(ctx context.Context, id string) (*model.AuditReport, string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.AuditReport), args.String(1), args.Error(2)
}

func (m *MockAuditService) List(ctx context.Context, limit, offset int) (*service.AuditReportListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuditReportListResult), args.Error(1)
}
