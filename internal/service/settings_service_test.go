package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"quotely/internal/config"
	"quotely/internal/domain"
	"quotely/internal/service"
	"quotely/mocks"
)

func testCompanyConfig() config.CompanyConfig {
	return config.CompanyConfig{Name: "Skylub System", Tagline: "Lubrication Systems", Currency: "Rs."}
}

func TestSettingsService_Get_FallsBackToConfig(t *testing.T) {
	repo := new(mocks.MockCompanySettingsRepo)
	svc := service.NewSettingsService(repo, testCompanyConfig())

	repo.On("Get", mock.Anything).Return(nil, domain.ErrNotFound)

	settings, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Skylub System", settings.CompanyName)
	assert.Equal(t, "Rs.", settings.Currency)
}

func TestSettingsService_Get_Stored(t *testing.T) {
	repo := new(mocks.MockCompanySettingsRepo)
	svc := service.NewSettingsService(repo, testCompanyConfig())
	stored := &domain.CompanySettings{CompanyName: "Renamed Co", Currency: "INR"}

	repo.On("Get", mock.Anything).Return(stored, nil)

	settings, err := svc.Get(context.Background())

	require.NoError(t, err)
	assert.Equal(t, stored, settings)
}

func TestSettingsService_Update(t *testing.T) {
	repo := new(mocks.MockCompanySettingsRepo)
	svc := service.NewSettingsService(repo, testCompanyConfig())

	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.CompanySettings")).Return(nil)

	settings, err := svc.Update(context.Background(), service.CompanySettingsInput{
		CompanyName: " Skylub System ",
		GSTIN:       "24abcde1234f1z5",
	})

	require.NoError(t, err)
	assert.Equal(t, "Skylub System", settings.CompanyName)
	assert.Equal(t, "24ABCDE1234F1Z5", settings.GSTIN)
	assert.Equal(t, "Rs.", settings.Currency)
	repo.AssertExpectations(t)
}

func TestSettingsService_Update_BlankName(t *testing.T) {
	repo := new(mocks.MockCompanySettingsRepo)
	svc := service.NewSettingsService(repo, testCompanyConfig())

	_, err := svc.Update(context.Background(), service.CompanySettingsInput{CompanyName: "  "})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
