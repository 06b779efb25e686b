package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"user-service/internal/dto"
	"user-service/internal/entities"
	"user-service/internal/repositories"
	apperrors "user-service/pkg/errors"
)

type UserServiceInterface interface {
	GetUserByID(ctx context.Context, userID uint64) (*entities.UserDetails, error)
	GetCompleteUserData(ctx context.Context, userID uint64) (*entities.CompleteUserData, error)
	SearchUsers(ctx context.Context, q dto.UserSearchQuery) ([]entities.UserSummary, error)
	ListUsers(ctx context.Context, q dto.UserListQuery) (*dto.UserListResponse, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

func userNotFound(userID uint64, err error) error {
	return apperrors.NewHttpError(http.StatusNotFound, apperrors.ErrUnknownIdentity.Error(), err, map[string]interface{}{"userID": userID})
}

func (s *UserService) GetUserByID(ctx context.Context, userID uint64) (*entities.UserDetails, error) {
	details, err := s.userRepo.FindDetails(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, userNotFound(userID, err)
		}
		return nil, err
	}
	s.logger.Info("Пользователь получен", zap.Uint64("userID", userID))
	return details, nil
}

func (s *UserService) GetCompleteUserData(ctx context.Context, userID uint64) (*entities.CompleteUserData, error) {
	data, err := s.userRepo.FindCompleteData(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, userNotFound(userID, err)
		}
		return nil, err
	}
	s.logger.Info("Полные данные пользователя получены", zap.Uint64("userID", userID))
	return data, nil
}

func (s *UserService) SearchUsers(ctx context.Context, q dto.UserSearchQuery) ([]entities.UserSummary, error) {
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return nil, apperrors.NewInvalidInputError("Search query required")
	}
	if q.Limit == 0 {
		q.Limit = dto.DefaultSearchLimit
	}

	users, err := s.userRepo.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Поиск пользователей", zap.String("query", q.Query), zap.Int("count", len(users)))
	return users, nil
}

func (s *UserService) ListUsers(ctx context.Context, q dto.UserListQuery) (*dto.UserListResponse, error) {
	q.Normalize()
	if lo, hi, _ := q.AgeRange(); lo > hi {
		return nil, apperrors.NewInvalidInputError("\"ageMin\" must be less than or equal to \"ageMax\"")
	}

	users, total, err := s.userRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &dto.UserListResponse{
		Users:      users,
		Pagination: dto.NewPagination(total, q.Page, q.Limit),
	}, nil
}
