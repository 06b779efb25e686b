package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"user-service/internal/authz"
	"user-service/internal/dto"
	"user-service/internal/repositories"
	apperrors "user-service/pkg/errors"
)

// RoleSource — откуда взят набор ролей (для логов и метрик).
type RoleSource string

const (
	RoleSourceHeader   RoleSource = "header"
	RoleSourceStore    RoleSource = "store"
	RoleSourceDefault  RoleSource = "default"
	RoleSourceFailOpen RoleSource = "fail_open"
)

type RoleResolverConfig struct {
	DefaultRole  string
	FailOpen     bool
	ActiveOnly   bool
	QueryTimeout time.Duration
}

type RoleResolverInterface interface {
	// Resolve всегда возвращает непустой набор, если ошибки нет.
	Resolve(ctx context.Context, userID uint64, payload *dto.TrustedPayload) (authz.RoleSet, RoleSource, error)
	Default() authz.RoleSet
}

type RoleResolver struct {
	roleRepo repositories.RoleRepositoryInterface
	cfg      RoleResolverConfig
	defaults authz.RoleSet
	logger   *zap.Logger
}

func NewRoleResolver(roleRepo repositories.RoleRepositoryInterface, cfg RoleResolverConfig, logger *zap.Logger) *RoleResolver {
	if cfg.DefaultRole == "" {
		cfg.DefaultRole = authz.RoleVoter
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleResolver{
		roleRepo: roleRepo,
		cfg:      cfg,
		defaults: authz.NewRoleSet(cfg.DefaultRole),
		logger:   logger,
	}
}

func (r *RoleResolver) Default() authz.RoleSet { return r.defaults }

// DefaultRole — базовая роль, которую получает любой пользователь без назначений.
func (r *RoleResolver) DefaultRole() string { return r.cfg.DefaultRole }

func (r *RoleResolver) Resolve(ctx context.Context, userID uint64, payload *dto.TrustedPayload) (authz.RoleSet, RoleSource, error) {
	// Роли из заголовка авторитетны, только если заголовок описывает ту же личность
	if payload != nil && payload.UserID == userID && payload.HasRoles() {
		roles := authz.NewRoleSet(payload.Roles...)
		if roles.Len() > 0 {
			return roles, RoleSourceHeader, nil
		}
	}

	if r.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.QueryTimeout)
		defer cancel()
	}

	names, err := r.roleRepo.FindRoleNames(ctx, userID, r.cfg.ActiveOnly)
	if err != nil {
		if r.cfg.FailOpen {
			r.logger.Warn("Не удалось получить роли, используется набор по умолчанию",
				zap.Uint64("userID", userID),
				zap.Stringer("roles", r.defaults),
				zap.Error(err),
			)
			return r.defaults, RoleSourceFailOpen, nil
		}
		return authz.RoleSet{}, "", apperrors.NewDependencyError(err, map[string]interface{}{"userID": userID, "stage": "role_resolution"})
	}

	roles := authz.NewRoleSet(names...)
	if roles.Len() == 0 {
		return roles.OrDefault(r.defaults), RoleSourceDefault, nil
	}
	return roles, RoleSourceStore, nil
}
