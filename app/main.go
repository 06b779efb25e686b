// Файл: main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"user-service/internal/routes"
	"user-service/pkg/config"
	"user-service/pkg/database/postgresql"
	apperrors "user-service/pkg/errors"
	applogger "user-service/pkg/logger"
	"user-service/pkg/metrics"
	appmw "user-service/pkg/middleware"
	"user-service/pkg/utils"
	"user-service/pkg/validation"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.Outputs)
	defer func() { _ = logger.Sync() }()

	appLoggers := &routes.Loggers{
		Main: logger.Named("main"),
		Auth: logger.Named("auth"),
		User: logger.Named("user"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. База данных
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres, appLoggers.Main.Named("db"))
	if err != nil {
		logger.Fatal("Ошибка подключения к БД", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics, err := metrics.New(registry)
	if err != nil {
		logger.Fatal("Ошибка регистрации метрик", zap.Error(err))
	}
	if err := appMetrics.RegisterPool(dbConn); err != nil {
		logger.Fatal("Ошибка регистрации метрик пула", zap.Error(err))
	}

	// 4. Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = utils.NewHTTPErrorHandler(appLoggers.Main)

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, apperrors.ErrDependency.Error(), err, nil)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(appmw.RequestLogger(appLoggers.Main.Named("http")))
	e.Use(appMetrics.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, cfg.Auth.TrustedHeader},
		AllowCredentials: true,
		MaxAge:           3600,
	}))
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// 5. Маршруты
	routes.InitRouter(e, dbConn, appLoggers, cfg, appMetrics)

	// 6. Запуск и корректная остановка
	go func() {
		logger.Info("Сервер запущен",
			zap.String("port", cfg.Server.Port),
			zap.String("service", cfg.Server.ServiceName),
			zap.String("env", cfg.Server.Environment),
		)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Получен сигнал остановки, завершаем работу")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
}
