package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"user-service/internal/authz"
	"user-service/internal/dto"
	"user-service/internal/services"
	apperrors "user-service/pkg/errors"
	"user-service/pkg/utils"
)

type UserController struct {
	userService   services.UserServiceInterface
	reportService services.ReportServiceInterface
	queryTimeout  time.Duration
	logger        *zap.Logger
}

func NewUserController(
	userService services.UserServiceInterface,
	reportService services.ReportServiceInterface,
	queryTimeout time.Duration,
	logger *zap.Logger,
) *UserController {
	if logger == nil {
		logger = zap.New(zapcore.NewNopCore()) // безопасный пустой логгер
	}
	return &UserController{
		userService:   userService,
		reportService: reportService,
		queryTimeout:  queryTimeout,
		logger:        logger,
	}
}

// pathUserID разбирает :userId по той же политике, что и остальные источники.
func pathUserID(ctx echo.Context) (uint64, error) {
	raw := ctx.Param("userId")
	if authz.IsAbsent(raw) {
		return 0, apperrors.NewInvalidInputError("User ID required")
	}
	return authz.ParseUserID(raw)
}

func (c *UserController) SearchUsers(ctx echo.Context) error {
	var q dto.UserSearchQuery
	err := echo.QueryParamsBinder(ctx).
		String("q", &q.Query).
		Uint64("limit", &q.Limit).
		Uint64("offset", &q.Offset).
		BindError()
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Invalid search parameters"), c.logger)
	}
	if err := ctx.Validate(&q); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.queryTimeout)
	defer cancel()

	res, err := c.userService.SearchUsers(reqCtx, q)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Search results", http.StatusOK)
}

func (c *UserController) GetUserByID(ctx echo.Context) error {
	userID, err := pathUserID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.queryTimeout)
	defer cancel()

	res, err := c.userService.GetUserByID(reqCtx, userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "User retrieved", http.StatusOK)
}

// GetCompleteUserData отдаёт данные вызывающего: личность уже в контексте.
func (c *UserController) GetCompleteUserData(ctx echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.queryTimeout)
	defer cancel()

	res, err := c.userService.GetCompleteUserData(reqCtx, userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "User data retrieved", http.StatusOK)
}

func (c *UserController) GetAllUsers(ctx echo.Context) error {
	q, err := bindListQuery(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Invalid list parameters"), c.logger)
	}
	if err := ctx.Validate(&q); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.queryTimeout)
	defer cancel()

	res, err := c.userService.ListUsers(reqCtx, q)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Users retrieved", http.StatusOK)
}

func bindListQuery(ctx echo.Context) (dto.UserListQuery, error) {
	var q dto.UserListQuery
	b := echo.QueryParamsBinder(ctx).
		Uint64("page", &q.Page).
		Uint64("limit", &q.Limit).
		String("search", &q.Search).
		String("gender", &q.Gender).
		String("country", &q.Country).
		String("sortBy", &q.SortBy).
		String("sortOrder", &q.SortOrder)
	if ctx.QueryParam("ageMin") != "" {
		q.AgeMin = new(int)
		b = b.Int("ageMin", q.AgeMin)
	}
	if ctx.QueryParam("ageMax") != "" {
		q.AgeMax = new(int)
		b = b.Int("ageMax", q.AgeMax)
	}
	return q, b.BindError()
}

func (c *UserController) GetUserAnalytics(ctx echo.Context) error {
	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.queryTimeout)
	defer cancel()

	res, err := c.reportService.GetUserAnalytics(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Analytics retrieved", http.StatusOK)
}
