package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "user-service/pkg/errors"
)

// HTTPResponse — единый конверт ответа сервиса.
type HTTPResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func SuccessResponse(ctx echo.Context, data interface{}, message string, code int) error {
	if message == "" {
		message = "Success"
	}
	return ctx.JSON(code, &HTTPResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	})
}

// ErrorResponse пишет ошибку в конверт. Клиент получает только сообщение и код,
// причина (SQL, стек и т.д.) уходит в лог вместе с личностью и путём.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	code, message := describe(err)

	if logger != nil {
		fields := auditFields(c, err)
		fields = append(fields, zap.Int("code", code))
		if code >= http.StatusInternalServerError {
			logger.Error("HTTP Error", fields...)
		} else {
			logger.Warn("HTTP Error", fields...)
		}
	}

	return c.JSON(code, &HTTPResponse{
		Success:   false,
		Message:   message,
		Timestamp: now(),
	})
}

func describe(err error) (int, string) {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErr.Message
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", e.Field(), e.Tag()))
		}
		return http.StatusBadRequest, "Validation failed: " + strings.Join(msgs, "; ")
	}

	var inputErr *apperrors.InvalidInputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest, inputErr.Message
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return echoErr.Code, fmt.Sprint(echoErr.Message)
	}

	for known, code := range apperrors.ErrorList {
		if errors.Is(err, known) {
			if code >= http.StatusInternalServerError {
				return code, apperrors.ErrDependency.Error()
			}
			return code, known.Error()
		}
	}

	return http.StatusInternalServerError, apperrors.ErrDependency.Error()
}

func auditFields(c echo.Context, err error) []zap.Field {
	req := c.Request()
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(err),
	}
	if userID, idErr := GetUserIDFromCtx(req.Context()); idErr == nil {
		fields = append(fields, zap.Uint64("userID", userID))
	}
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) && len(httpErr.Context) > 0 {
		fields = append(fields, zap.Any("context", httpErr.Context))
	}
	return fields
}

// NewHTTPErrorHandler рендерит ошибки самого echo (404, 405, 413) в том же конверте.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			switch echoErr.Code {
			case http.StatusNotFound:
				err = apperrors.NewHttpError(http.StatusNotFound, "Route not found", nil, nil)
			case http.StatusMethodNotAllowed:
				err = apperrors.NewHttpError(http.StatusMethodNotAllowed, "Method not allowed", nil, nil)
			case http.StatusRequestEntityTooLarge:
				err = apperrors.NewHttpError(http.StatusRequestEntityTooLarge, "Request body too large", nil, nil)
			}
		}
		if respErr := ErrorResponse(c, err, logger); respErr != nil && logger != nil {
			logger.Error("не удалось отправить ответ об ошибке", zap.Error(respErr))
		}
	}
}
