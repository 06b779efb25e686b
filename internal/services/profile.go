package services

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"user-service/internal/dto"
	"user-service/internal/entities"
	"user-service/internal/repositories"
	apperrors "user-service/pkg/errors"
)

type ProfileServiceInterface interface {
	// GetProfile возвращает ErrNotFound, если у пользователя ещё нет деталей.
	GetProfile(ctx context.Context, userID uint64) (*dto.ProfileEnvelope, error)
	UpdateProfile(ctx context.Context, userID uint64, d dto.UpdateProfileDTO) (*entities.UserDetails, error)
	GetPreferences(ctx context.Context, userID uint64) (*entities.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID uint64, d dto.UpdatePreferencesDTO) (*entities.UserPreferences, error)
}

type ProfileService struct {
	userRepo    repositories.UserRepositoryInterface
	prefsRepo   repositories.PreferencesRepositoryInterface
	defaultRole string
	logger      *zap.Logger
}

func NewProfileService(
	userRepo repositories.UserRepositoryInterface,
	prefsRepo repositories.PreferencesRepositoryInterface,
	defaultRole string,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		prefsRepo:   prefsRepo,
		defaultRole: defaultRole,
		logger:      logger,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint64) (*dto.ProfileEnvelope, error) {
	profile, err := s.userRepo.FindProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(profile.Roles) == 0 {
		profile.Roles = []string{s.defaultRole}
	}
	s.logger.Info("Профиль получен", zap.Uint64("userID", userID))
	return &dto.ProfileEnvelope{Profile: profile}, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint64, d dto.UpdateProfileDTO) (*entities.UserDetails, error) {
	if err := d.CheckBlank(); err != nil {
		return nil, err
	}

	details, err := s.userRepo.UpdateDetails(ctx, userID, d)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(http.StatusNotFound, "Profile not found", err, map[string]interface{}{"userID": userID})
		}
		return nil, err
	}
	if !d.IsEmpty() {
		s.logger.Info("Профиль обновлён", zap.Uint64("userID", userID))
	}
	return details, nil
}

// GetPreferences создаёт строку с настройками по умолчанию при первом чтении.
func (s *ProfileService) GetPreferences(ctx context.Context, userID uint64) (*entities.UserPreferences, error) {
	prefs, err := s.prefsRepo.Find(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return s.prefsRepo.CreateDefault(ctx, userID)
}

func (s *ProfileService) UpdatePreferences(ctx context.Context, userID uint64, d dto.UpdatePreferencesDTO) (*entities.UserPreferences, error) {
	if err := d.CheckBlank(); err != nil {
		return nil, err
	}

	current, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if d.IsEmpty() {
		return current, nil
	}

	prefs, err := s.prefsRepo.Update(ctx, userID, d)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Предпочтения обновлены", zap.Uint64("userID", userID))
	return prefs, nil
}
