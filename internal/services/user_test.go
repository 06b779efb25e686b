package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-service/internal/dto"
	"user-service/internal/entities"
	"user-service/internal/repositories/mocks"
	apperrors "user-service/pkg/errors"
)

func TestGetUserByID(t *testing.T) {
	repo := new(mocks.UserRepository)
	repo.On("FindDetails", mock.Anything, uint64(1)).
		Return(&entities.UserDetails{UserID: 1, FirstName: null.StringFrom("Anna")}, nil).Once()
	svc := NewUserService(repo, zap.NewNop())

	details, err := svc.GetUserByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Anna", details.FirstName.String)
}

func TestGetUserByID_NotFound(t *testing.T) {
	repo := new(mocks.UserRepository)
	repo.On("FindDetails", mock.Anything, uint64(2)).Return(nil, apperrors.ErrNotFound).Once()
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.GetUserByID(context.Background(), 2)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.Equal(t, "User not found", httpErr.Message)
}

func TestGetCompleteUserData_StoreError(t *testing.T) {
	repo := new(mocks.UserRepository)
	repo.On("FindCompleteData", mock.Anything, uint64(3)).Return(nil, errors.New("timeout")).Once()
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.GetCompleteUserData(context.Background(), 3)
	assert.EqualError(t, err, "timeout")
}

func TestSearchUsers(t *testing.T) {
	repo := new(mocks.UserRepository)
	repo.On("Search", mock.Anything, dto.UserSearchQuery{Query: "ann", Limit: dto.DefaultSearchLimit}).
		Return([]entities.UserSummary{{UserID: 1}}, nil).Once()
	svc := NewUserService(repo, zap.NewNop())

	users, err := svc.SearchUsers(context.Background(), dto.UserSearchQuery{Query: "  ann "})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	repo.AssertExpectations(t)
}

func TestSearchUsers_QueryRequired(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.SearchUsers(context.Background(), dto.UserSearchQuery{Query: "   "})
	assert.EqualError(t, err, "Search query required")
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestListUsers(t *testing.T) {
	repo := new(mocks.UserRepository)
	repo.On("List", mock.Anything, mock.MatchedBy(func(q dto.UserListQuery) bool {
		return q.Page == 2 && q.Limit == 20 && q.SortBy == "collected_at" && q.SortOrder == "DESC"
	})).Return([]entities.UserListItem{{}, {}}, uint64(42), nil).Once()
	svc := NewUserService(repo, zap.NewNop())

	resp, err := svc.ListUsers(context.Background(), dto.UserListQuery{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, dto.Pagination{Total: 42, Page: 2, Limit: 20, TotalPages: 3}, resp.Pagination)
	repo.AssertExpectations(t)
}

func TestListUsers_InvertedAgeRange(t *testing.T) {
	repo := new(mocks.UserRepository)
	svc := NewUserService(repo, zap.NewNop())
	lo, hi := 40, 20

	_, err := svc.ListUsers(context.Background(), dto.UserListQuery{AgeMin: &lo, AgeMax: &hi})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
