package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"user-service/internal/authz"
	"user-service/internal/dto"
	"user-service/internal/services"
	"user-service/pkg/contextkeys"
	apperrors "user-service/pkg/errors"
	"user-service/pkg/metrics"
	"user-service/pkg/service"
	"user-service/pkg/utils"
)

// Источники личности в порядке приоритета.
const (
	SourceHeader = "header"
	SourceBody   = "body"
	SourceQuery  = "query"
	SourcePath   = "path"
)

const userIDField = "userId"

// UserExistenceChecker — точечная проверка аккаунта.
type UserExistenceChecker interface {
	Exists(ctx context.Context, userID uint64) (bool, error)
}

type IdentityConfig struct {
	HeaderName   string
	QueryTimeout time.Duration
}

// IdentityMiddleware собирает конвейер: извлечение личности -> проверка
// существования -> разрешение ролей -> гвард -> обработчик.
type IdentityMiddleware struct {
	trusted    service.TrustedHeaderService
	users      UserExistenceChecker
	resolver   services.RoleResolverInterface
	gatekeeper *authz.Gatekeeper
	cfg        IdentityConfig
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewIdentityMiddleware(
	trusted service.TrustedHeaderService,
	users UserExistenceChecker,
	resolver services.RoleResolverInterface,
	gatekeeper *authz.Gatekeeper,
	cfg IdentityConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *IdentityMiddleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-User-Data"
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityMiddleware{
		trusted:    trusted,
		users:      users,
		resolver:   resolver,
		gatekeeper: gatekeeper,
		cfg:        cfg,
		metrics:    m,
		logger:     logger,
	}
}

// RequireUserID извлекает userId: заголовок, тело JSON, query, параметр пути.
// Побеждает первый найденный источник, значения не сливаются.
func (m *IdentityMiddleware) RequireUserID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, source, payload, err := m.extract(c)
		if err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}

		ctx := utils.WithUserID(c.Request().Context(), userID)
		if payload != nil {
			ctx = context.WithValue(ctx, contextkeys.TrustedPayloadKey, payload)
		}
		c.SetRequest(c.Request().WithContext(ctx))
		m.metrics.ObserveIdentitySource(source)

		m.logger.Debug("Личность извлечена", zap.Uint64("userID", userID), zap.String("source", source))
		return next(c)
	}
}

func (m *IdentityMiddleware) extract(c echo.Context) (uint64, string, *dto.TrustedPayload, error) {
	req := c.Request()

	if raw := req.Header.Get(m.cfg.HeaderName); strings.TrimSpace(raw) != "" {
		payload, err := m.trusted.Parse(raw)
		if err == nil {
			return payload.UserID, SourceHeader, payload, nil
		}
		// Битый заголовок считается отсутствующим
		m.logger.Warn("Некорректный доверенный заголовок, игнорируется",
			zap.String("header", m.cfg.HeaderName),
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)
	}

	v, ok, err := bodyUserID(req)
	if err != nil {
		return 0, "", nil, err
	}
	if ok {
		id, err := authz.ParseUserID(v)
		return id, SourceBody, nil, err
	}

	if v := c.QueryParam(userIDField); !authz.IsAbsent(v) {
		id, err := authz.ParseUserID(v)
		return id, SourceQuery, nil, err
	}

	if v := c.Param(userIDField); !authz.IsAbsent(v) {
		id, err := authz.ParseUserID(v)
		return id, SourcePath, nil, err
	}

	return 0, "", nil, apperrors.ErrMissingIdentity
}

// bodyUserID читает поле userId из JSON- или form-тела и возвращает тело обратно
// в запрос, чтобы обработчик мог сделать Bind. Тело не-объект считается отсутствующим.
func bodyUserID(req *http.Request) (interface{}, bool, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, false, nil
	}
	contentType := req.Header.Get(echo.HeaderContentType)
	isJSON := strings.HasPrefix(contentType, echo.MIMEApplicationJSON)
	isForm := strings.HasPrefix(contentType, echo.MIMEApplicationForm)
	if !isJSON && !isForm {
		return nil, false, nil
	}

	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return nil, false, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err, nil)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false, nil
	}

	if isForm {
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, false, apperrors.NewHttpError(http.StatusBadRequest, "Invalid form body", err, nil)
		}
		v := values.Get(userIDField)
		if authz.IsAbsent(v) {
			return nil, false, nil
		}
		return v, true, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var body interface{}
	if err := decoder.Decode(&body); err != nil {
		return nil, false, apperrors.NewHttpError(http.StatusBadRequest, "Invalid JSON body", err, nil)
	}
	obj, ok := body.(map[string]interface{})
	if !ok {
		return nil, false, nil
	}
	v, present := obj[userIDField]
	if !present || authz.IsAbsent(v) {
		return nil, false, nil
	}
	return v, true, nil
}

// VerifyUserExists отклоняет личность, которой нет в таблице аккаунтов.
func (m *IdentityMiddleware) VerifyUserExists(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := utils.GetUserIDFromCtx(c.Request().Context())
		if err != nil {
			return utils.ErrorResponse(c, apperrors.ErrMissingIdentity, m.logger)
		}

		ctx, cancel := utils.ContextWithTimeout(c, m.cfg.QueryTimeout)
		defer cancel()

		exists, err := m.users.Exists(ctx, userID)
		if err != nil {
			return utils.ErrorResponse(c, apperrors.NewDependencyError(err, map[string]interface{}{"userID": userID, "stage": "existence_check"}), m.logger)
		}
		if !exists {
			return utils.ErrorResponse(c, apperrors.NewHttpError(http.StatusNotFound, apperrors.ErrUnknownIdentity.Error(), apperrors.ErrUnknownIdentity, map[string]interface{}{"userID": userID}), m.logger)
		}
		return next(c)
	}
}

// ResolveRoles кладёт набор ролей в контекст запроса. Повторно в рамках
// одного запроса роли не разрешаются.
func (m *IdentityMiddleware) ResolveRoles(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := m.ensureRoles(c); err != nil {
			return utils.ErrorResponse(c, err, m.logger)
		}
		return next(c)
	}
}

func (m *IdentityMiddleware) ensureRoles(c echo.Context) (authz.RoleSet, error) {
	ctx := c.Request().Context()
	if roles, ok := utils.GetRolesFromCtx(ctx); ok {
		return roles, nil
	}

	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return authz.RoleSet{}, apperrors.ErrMissingIdentity
	}
	payload, _ := ctx.Value(contextkeys.TrustedPayloadKey).(*dto.TrustedPayload)

	roles, source, err := m.resolver.Resolve(ctx, userID, payload)
	if err != nil {
		return authz.RoleSet{}, err
	}
	m.metrics.ObserveRoleSource(string(source))
	m.logger.Debug("Роли разрешены",
		zap.Uint64("userID", userID),
		zap.Stringer("roles", roles),
		zap.String("source", string(source)),
	)

	c.SetRequest(c.Request().WithContext(utils.WithRoles(ctx, roles)))
	return roles, nil
}

// Guard пропускает запрос, только если предикат выполнен. Состояние ролей не меняет.
func (m *IdentityMiddleware) Guard(g authz.Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, err := m.ensureRoles(c)
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}

			allowed := g.Allow(roles)
			m.metrics.ObserveGuard(g.Name, allowed)
			if !allowed {
				userID, _ := utils.GetUserIDFromCtx(c.Request().Context())
				return utils.ErrorResponse(c, apperrors.NewForbiddenError(g.Description, map[string]interface{}{
					"userID": userID,
					"roles":  roles.Names(),
					"guard":  g.Name,
				}), m.logger)
			}
			return next(c)
		}
	}
}

func (m *IdentityMiddleware) HasRole(role string) echo.MiddlewareFunc {
	return m.Guard(m.gatekeeper.HasRole(role))
}

func (m *IdentityMiddleware) HasAnyRole(roles ...string) echo.MiddlewareFunc {
	return m.Guard(m.gatekeeper.HasAnyRole(roles...))
}

func (m *IdentityMiddleware) HasAllRoles(roles ...string) echo.MiddlewareFunc {
	return m.Guard(m.gatekeeper.HasAllRoles(roles...))
}

func (m *IdentityMiddleware) IsAdmin() echo.MiddlewareFunc {
	return m.Guard(m.gatekeeper.IsAdmin())
}
