package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"user-service/internal/authz"
	"user-service/internal/controllers"
	"user-service/internal/repositories"
	"user-service/internal/services"
	"user-service/pkg/config"
	"user-service/pkg/metrics"
	"user-service/pkg/middleware"
	"user-service/pkg/service"
)

type Loggers struct {
	Main *zap.Logger
	Auth *zap.Logger
	User *zap.Logger
}

// Dependencies — всё, что нужно маршрутам. Хранилище передаётся явно,
// поэтому в тестах репозитории подменяются заглушками.
type Dependencies struct {
	Config          *config.Config
	Loggers         *Loggers
	Metrics         *metrics.Metrics
	UserRepo        repositories.UserRepositoryInterface
	RoleRepo        repositories.RoleRepositoryInterface
	PreferencesRepo repositories.PreferencesRepositoryInterface
	ReportRepo      repositories.ReportRepositoryInterface
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, loggers *Loggers, cfg *config.Config, m *metrics.Metrics) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	Register(e, Dependencies{
		Config:          cfg,
		Loggers:         loggers,
		Metrics:         m,
		UserRepo:        repositories.NewUserRepository(dbConn, loggers.User),
		RoleRepo:        repositories.NewRoleRepository(dbConn, loggers.Auth),
		PreferencesRepo: repositories.NewPreferencesRepository(dbConn, loggers.User),
		ReportRepo:      repositories.NewReportRepository(dbConn),
	})

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}

func Register(e *echo.Echo, deps Dependencies) {
	cfg := deps.Config
	loggers := deps.Loggers

	// --- 1. КОНВЕЙЕР ЛИЧНОСТИ И РОЛЕЙ ---
	trusted := service.NewTrustedHeaderService(cfg.Auth.TrustedHeaderSecret, e.Validator)
	resolver := services.NewRoleResolver(deps.RoleRepo, services.RoleResolverConfig{
		DefaultRole:  cfg.Auth.DefaultRole,
		FailOpen:     cfg.Auth.RoleFailOpen,
		ActiveOnly:   cfg.Auth.RoleActiveOnly,
		QueryTimeout: cfg.Postgres.QueryTimeout,
	}, loggers.Auth)
	gatekeeper := authz.NewGatekeeper(cfg.Auth.AdminRoles)
	identityMW := middleware.NewIdentityMiddleware(trusted, deps.UserRepo, resolver, gatekeeper, middleware.IdentityConfig{
		HeaderName:   cfg.Auth.TrustedHeader,
		QueryTimeout: cfg.Postgres.QueryTimeout,
	}, deps.Metrics, loggers.Auth)

	// --- 2. СЕРВИСЫ ---
	userService := services.NewUserService(deps.UserRepo, loggers.User)
	profileService := services.NewProfileService(deps.UserRepo, deps.PreferencesRepo, resolver.DefaultRole(), loggers.User)
	reportService := services.NewReportService(deps.ReportRepo, loggers.Main)

	// --- 3. КОНТРОЛЛЕРЫ ---
	userController := controllers.NewUserController(userService, reportService, cfg.Postgres.QueryTimeout, loggers.User)
	profileController := controllers.NewProfileController(profileService, cfg.Postgres.QueryTimeout, loggers.User)

	// --- 4. РОУТЕРЫ ---
	runHealthRouter(e, cfg.Server.ServiceName, deps.Metrics)

	api := e.Group("/api/v1")
	baseRole := resolver.DefaultRole()
	runUserRouter(api, userController, identityMW, baseRole)
	runProfileRouter(api, profileController, identityMW, baseRole)
}
