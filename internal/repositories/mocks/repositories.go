// Package mocks содержит заглушки репозиториев на testify/mock для тестов сервисов,
// мидлвэров и маршрутов.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"user-service/internal/dto"
	"user-service/internal/entities"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Exists(ctx context.Context, userID uint64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) FindDetails(ctx context.Context, userID uint64) (*entities.UserDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserDetails), args.Error(1)
}

func (m *UserRepository) FindCompleteData(ctx context.Context, userID uint64) (*entities.CompleteUserData, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CompleteUserData), args.Error(1)
}

func (m *UserRepository) FindProfile(ctx context.Context, userID uint64) (*entities.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *UserRepository) UpdateDetails(ctx context.Context, userID uint64, d dto.UpdateProfileDTO) (*entities.UserDetails, error) {
	args := m.Called(ctx, userID, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserDetails), args.Error(1)
}

func (m *UserRepository) Search(ctx context.Context, q dto.UserSearchQuery) ([]entities.UserSummary, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.UserSummary), args.Error(1)
}

func (m *UserRepository) List(ctx context.Context, q dto.UserListQuery) ([]entities.UserListItem, uint64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entities.UserListItem), args.Get(1).(uint64), args.Error(2)
}

type RoleRepository struct {
	mock.Mock
}

func (m *RoleRepository) FindRoleNames(ctx context.Context, userID uint64, activeOnly bool) ([]string, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type PreferencesRepository struct {
	mock.Mock
}

func (m *PreferencesRepository) Find(ctx context.Context, userID uint64) (*entities.UserPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserPreferences), args.Error(1)
}

func (m *PreferencesRepository) CreateDefault(ctx context.Context, userID uint64) (*entities.UserPreferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserPreferences), args.Error(1)
}

func (m *PreferencesRepository) Update(ctx context.Context, userID uint64, d dto.UpdatePreferencesDTO) (*entities.UserPreferences, error) {
	args := m.Called(ctx, userID, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserPreferences), args.Error(1)
}

type ReportRepository struct {
	mock.Mock
}

func (m *ReportRepository) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReportRepository) AverageAge(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *ReportRepository) Distribution(ctx context.Context, dimension string, limit uint64) ([]entities.Bucket, error) {
	args := m.Called(ctx, dimension, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Bucket), args.Error(1)
}

func (m *ReportRepository) AgeGroups(ctx context.Context) ([]entities.Bucket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Bucket), args.Error(1)
}

func (m *ReportRepository) RegistrationTrend(ctx context.Context, days int) ([]entities.Bucket, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Bucket), args.Error(1)
}
