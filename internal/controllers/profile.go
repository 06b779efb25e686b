package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"user-service/internal/dto"
	"user-service/internal/services"
	apperrors "user-service/pkg/errors"
	"user-service/pkg/utils"
)

type ProfileController struct {
	profileService services.ProfileServiceInterface
	queryTimeout   time.Duration
	logger         *zap.Logger
}

func NewProfileController(profileService services.ProfileServiceInterface, queryTimeout time.Duration, logger *zap.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		queryTimeout:   queryTimeout,
		logger:         logger,
	}
}

// subjectID — чей профиль обрабатываем. Для /me это вызывающий,
// для /admin/:userId — пользователь из пути.
func subjectID(ctx echo.Context) (uint64, error) {
	if ctx.Param("userId") != "" {
		return pathUserID(ctx)
	}
	return utils.GetUserIDFromCtx(ctx.Request().Context())
}

func (c *ProfileController) GetProfile(ctx echo.Context) error {
	userID, err := subjectID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.queryTimeout)
	defer cancel()

	res, err := c.profileService.GetProfile(reqCtx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return utils.SuccessResponse(ctx, map[string]interface{}{}, "Profile not found", http.StatusOK)
		}
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Profile retrieved", http.StatusOK)
}

func (c *ProfileController) UpdateProfile(ctx echo.Context) error {
	userID, err := subjectID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.UpdateProfileDTO
	if err := ctx.Bind(&d); err != nil {
		c.logger.Warn("Ошибка при связывании запроса обновления профиля", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.queryTimeout)
	defer cancel()

	res, err := c.profileService.UpdateProfile(reqCtx, userID, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Profile updated successfully", http.StatusOK)
}

func (c *ProfileController) GetPreferences(ctx echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.queryTimeout)
	defer cancel()

	res, err := c.profileService.GetPreferences(reqCtx, userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Preferences retrieved", http.StatusOK)
}

func (c *ProfileController) UpdatePreferences(ctx echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.UpdatePreferencesDTO
	if err := ctx.Bind(&d); err != nil {
		c.logger.Warn("Ошибка при связывании запроса обновления предпочтений", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("Invalid request body"), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.ContextWithTimeout(ctx, c.queryTimeout)
	defer cancel()

	res, err := c.profileService.UpdatePreferences(reqCtx, userID, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Preferences updated successfully", http.StatusOK)
}
