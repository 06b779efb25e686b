// pkg/utils/ctxutils.go

package utils

import (
	"context"

	"user-service/internal/authz"
	"user-service/pkg/contextkeys"
	apperrors "user-service/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

// GetRolesFromCtx возвращает роли, уже разрешённые для текущего запроса.
func GetRolesFromCtx(ctx context.Context) (authz.RoleSet, bool) {
	roles, ok := ctx.Value(contextkeys.UserRolesKey).(authz.RoleSet)
	return roles, ok
}

func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

func WithRoles(ctx context.Context, roles authz.RoleSet) context.Context {
	return context.WithValue(ctx, contextkeys.UserRolesKey, roles)
}
