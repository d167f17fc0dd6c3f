package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quotely/internal/domain"
)

// MockStatsRepo is a mock implementation of port.StatsRepository.
type MockStatsRepo struct {
	mock.Mock
}

func (m *MockStatsRepo) GetStats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

// MockCompanySettingsRepo is a mock implementation of port.CompanySettingsRepository.
type MockCompanySettingsRepo struct {
	mock.Mock
}

func (m *MockCompanySettingsRepo) Get(ctx context.Context) (*domain.CompanySettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanySettings), args.Error(1)
}

func (m *MockCompanySettingsRepo) Update(ctx context.Context, settings *domain.CompanySettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
