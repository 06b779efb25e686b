package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const rolesTable = "votteryy_user_roles"

type RoleRepositoryInterface interface {
	// FindRoleNames возвращает имена назначенных ролей; пустой срез — назначений нет.
	FindRoleNames(ctx context.Context, userID uint64, activeOnly bool) ([]string, error)
}

type RoleRepository struct {
	storage querier
	logger  *zap.Logger
}

func NewRoleRepository(storage *pgxpool.Pool, logger *zap.Logger) RoleRepositoryInterface {
	return &RoleRepository{storage: storage, logger: logger}
}

func buildRoleNamesQuery(userID uint64, activeOnly bool) sq.SelectBuilder {
	builder := psql().Select("role_name").
		From(rolesTable).
		Where(sq.Eq{"user_id": userID})
	if activeOnly {
		builder = builder.Where(sq.Eq{"is_active": true})
	}
	return builder.OrderBy("role_name")
}

func (r *RoleRepository) FindRoleNames(ctx context.Context, userID uint64, activeOnly bool) ([]string, error) {
	query, args, err := buildRoleNamesQuery(userID, activeOnly).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса ролей: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ролей пользователя: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ошибка сканирования роли: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по ролям: %w", err)
	}
	return names, nil
}
