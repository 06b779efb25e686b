package utils

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// ContextWithTimeout ограничивает контекст запроса. Отмена клиентом
// (закрытое соединение) прерывает и дочерний контекст.
func ContextWithTimeout(ctx echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	reqCtx := ctx.Request().Context()
	ctxWithTimeOut, cancelContext := context.WithTimeout(reqCtx, timeout)

	return ctxWithTimeOut, cancelContext
}
