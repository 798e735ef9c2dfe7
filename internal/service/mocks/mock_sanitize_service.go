package mocks

import (
	"context"

	"opaque/internal/sanitizer"
	"opaque/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockSanitizeService struct {
	mock.Mock
}

func (m *MockSanitizeService) Sanitize(ctx context.Context, requestID, text string) sanitizer.Result {
	args := m.Called(ctx, requestID, text)
	return args.Get(0).(sanitizer.Result)
}

func (m *MockSanitizeService) SanitizeStructure(ctx context.Context, requestID string, payload any) (any, sanitizer.Result) {
	args := m.Called(ctx, requestID, payload)
	return args.Get(0), args.Get(1).(sanitizer.Result)
}

func (m *MockSanitizeService) Reveal(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockSanitizeService) ListEvents(ctx context.Context, limit, offset int) (*service.ScanEventListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanEventListResult), args.Error(1)
}
