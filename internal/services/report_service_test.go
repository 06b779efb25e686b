package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-service/internal/entities"
	"user-service/internal/repositories"
	"user-service/internal/repositories/mocks"
)

func stubReports(repo *mocks.ReportRepository, countErr error) {
	repo.On("CountUsers", mock.Anything).Return(int64(2), countErr)
	repo.On("AverageAge", mock.Anything).Return(30.5, nil)
	repo.On("Distribution", mock.Anything, repositories.DimensionGender, uint64(0)).
		Return([]entities.Bucket{{Label: "female", Count: 1}, {Label: "Unknown", Count: 1}}, nil)
	repo.On("Distribution", mock.Anything, repositories.DimensionCountry, uint64(10)).
		Return([]entities.Bucket{{Label: "Latvia", Count: 2}}, nil)
	repo.On("Distribution", mock.Anything, repositories.DimensionLanguage, uint64(0)).
		Return([]entities.Bucket{{Label: "en", Count: 2}}, nil)
	repo.On("Distribution", mock.Anything, repositories.DimensionTimezone, uint64(10)).
		Return([]entities.Bucket{{Label: "Europe/Riga", Count: 2}}, nil)
	repo.On("AgeGroups", mock.Anything).Return([]entities.Bucket{{Label: "25-34", Count: 2}}, nil)
	repo.On("RegistrationTrend", mock.Anything, 30).Return([]entities.Bucket{{Label: "2024-05-01", Count: 2}}, nil)
}

func TestGetUserAnalytics(t *testing.T) {
	repo := new(mocks.ReportRepository)
	stubReports(repo, nil)
	svc := NewReportService(repo, zap.NewNop())

	a, err := svc.GetUserAnalytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), a.TotalUsers)
	assert.Equal(t, 30.5, a.AverageAge)
	assert.Len(t, a.GenderDistribution, 2)
	assert.Equal(t, "Latvia", a.CountryDistribution[0].Label)
	assert.Equal(t, "en", a.LanguageDistribution[0].Label)
	assert.Equal(t, "Europe/Riga", a.TimezoneDistribution[0].Label)
	assert.Equal(t, "25-34", a.AgeDistribution[0].Label)
	assert.Len(t, a.RegistrationTrend, 1)
	repo.AssertExpectations(t)
}

func TestGetUserAnalytics_FirstErrorWins(t *testing.T) {
	repo := new(mocks.ReportRepository)
	stubReports(repo, errors.New("count failed"))
	svc := NewReportService(repo, zap.NewNop())

	a, err := svc.GetUserAnalytics(context.Background())
	assert.Nil(t, a)
	assert.EqualError(t, err, "count failed")
}
