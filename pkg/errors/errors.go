package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Личность
	ErrMissingIdentity   = fmt.Errorf("User ID required in request header, body, query or params")
	ErrMalformedIdentity = fmt.Errorf("Invalid User ID format")
	ErrUnknownIdentity   = fmt.Errorf("User not found")

	// Доверенный заголовок шлюза
	ErrTrustedHeaderAbsent  = fmt.Errorf("trusted header is absent")
	ErrInvalidTrustedHeader = fmt.Errorf("trusted header payload is malformed")
	ErrInvalidSigningMethod = fmt.Errorf("unexpected trusted header signing method")

	// Доступ
	ErrForbidden = fmt.Errorf("Access denied")

	// Зависимости (БД и т.п.)
	ErrDependency = fmt.Errorf("Internal server error")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("User ID not found in request context")

	// Общие
	ErrNotFound   = fmt.Errorf("Resource not found")
	ErrValidation = fmt.Errorf("Validation failed")
)

// ErrorList сопоставляет доменные ошибки со статусами HTTP.
var ErrorList = map[error]int{
	ErrMissingIdentity:         http.StatusBadRequest,
	ErrMalformedIdentity:       http.StatusBadRequest,
	ErrValidation:              http.StatusBadRequest,
	ErrUserIDNotFoundInContext: http.StatusBadRequest,
	ErrForbidden:               http.StatusForbidden,
	ErrUnknownIdentity:         http.StatusNotFound,
	ErrNotFound:                http.StatusNotFound,
	ErrDependency:              http.StatusInternalServerError,
}

// HttpError несёт код, безопасное для клиента сообщение и внутреннюю причину.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		Err:     err,
		Context: context,
	}
}

// NewForbiddenError формирует 403 с пояснением, какой роли не хватает.
func NewForbiddenError(message string, context map[string]interface{}) *HttpError {
	return NewHttpError(http.StatusForbidden, message, ErrForbidden, context)
}

// NewDependencyError прячет причину от клиента, но сохраняет её для лога.
func NewDependencyError(cause error, context map[string]interface{}) *HttpError {
	return NewHttpError(http.StatusInternalServerError, ErrDependency.Error(), fmt.Errorf("%w: %v", ErrDependency, cause), context)
}

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func (e *InvalidInputError) Unwrap() error { return ErrValidation }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// StatusOf возвращает HTTP-статус для ошибки; неизвестные ошибки дают 500.
func StatusOf(err error) int {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	for known, code := range ErrorList {
		if errors.Is(err, known) {
			return code
		}
	}
	return http.StatusInternalServerError
}
