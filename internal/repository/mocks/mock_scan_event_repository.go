package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"opaque/internal/model"
	"opaque/internal/repository"
)

type MockScanEventRepository struct {
	mock.Mock
}

func (m *MockScanEventRepository) Create(ctx context.Context, ev *model.ScanEvent) (*model.ScanEvent, error) {
	args := m.Called(ctx, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScanEvent), args.Error(1)
}

func (m *MockScanEventRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.ScanEvent], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ScanEvent]), args.Error(1)
}
