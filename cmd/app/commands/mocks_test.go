package commands

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

type mockTokenUseCase struct {
	mock.Mock
}

func (m *mockTokenUseCase) Issue(
	ctx context.Context,
	input *tokenDomain.IssueTokenInput,
) (*tokenDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.IssueTokenOutput), args.Error(1)
}

func (m *mockTokenUseCase) ValidateAndConsume(
	ctx context.Context,
	input *tokenDomain.ValidateTokenInput,
) (*tokenDomain.ResourceGrant, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenDomain.ResourceGrant), args.Error(1)
}

func (m *mockTokenUseCase) Revoke(ctx context.Context, input *tokenDomain.RevokeTokenInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *mockTokenUseCase) ListAccessLog(
	ctx context.Context,
	input *tokenDomain.ListAccessLogInput,
) ([]*tokenDomain.AccessLogEntry, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tokenDomain.AccessLogEntry), args.Error(1)
}

func (m *mockTokenUseCase) CleanExpired(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
