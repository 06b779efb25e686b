package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"user-service/internal/dto"
	"user-service/internal/entities"
	db "user-service/internal/infrastructure/bd"
	apperrors "user-service/pkg/errors"
	"user-service/pkg/types"
)

const (
	accountsTable = "public.users"
	detailsTable  = "votteryy_user_details"
	detailsFields = "ud.user_id, ud.first_name, ud.last_name, ud.age, ud.gender, ud.country, ud.city, ud.timezone, ud.language, ud.registration_ip::text, ud.collected_at"
)

// БЕЛЫЙ СПИСОК для админского списка: имя из запроса -> колонка
var userListAllowedFields = map[string]string{
	"gender":       "ud.gender",
	"country":      "ud.country",
	"collected_at": "ud.collected_at",
	"first_name":   "ud.first_name",
	"last_name":    "ud.last_name",
	"age":          "ud.age",
}

var userSearchColumns = []string{"ud.first_name", "ud.last_name", "ud.country", "ud.city"}

type UserRepositoryInterface interface {
	Exists(ctx context.Context, userID uint64) (bool, error)
	FindDetails(ctx context.Context, userID uint64) (*entities.UserDetails, error)
	FindCompleteData(ctx context.Context, userID uint64) (*entities.CompleteUserData, error)
	FindProfile(ctx context.Context, userID uint64) (*entities.Profile, error)
	UpdateDetails(ctx context.Context, userID uint64, d dto.UpdateProfileDTO) (*entities.UserDetails, error)
	Search(ctx context.Context, q dto.UserSearchQuery) ([]entities.UserSummary, error)
	List(ctx context.Context, q dto.UserListQuery) ([]entities.UserListItem, uint64, error)
}

type UserRepository struct {
	storage querier
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func scanDetails(row pgx.Row) (*entities.UserDetails, error) {
	var d entities.UserDetails
	err := row.Scan(
		&d.UserID, &d.FirstName, &d.LastName, &d.Age, &d.Gender,
		&d.Country, &d.City, &d.Timezone, &d.Language,
		&d.RegistrationIP, &d.CollectedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Exists — точечный запрос к таблице аккаунтов, без побочных эффектов.
func (r *UserRepository) Exists(ctx context.Context, userID uint64) (bool, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, "SELECT user_id FROM public.users WHERE user_id = $1", userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка проверки существования пользователя: %w", err)
	}
	return true, nil
}

func (r *UserRepository) FindDetails(ctx context.Context, userID uint64) (*entities.UserDetails, error) {
	query, args, err := psql().Select(detailsFields).
		From(detailsTable + " ud").
		Where(sq.Eq{"ud.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса деталей: %w", err)
	}
	details, err := scanDetails(r.storage.QueryRow(ctx, query, args...))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("ошибка получения деталей пользователя: %w", err)
	}
	return details, err
}

func (r *UserRepository) FindCompleteData(ctx context.Context, userID uint64) (*entities.CompleteUserData, error) {
	query, args, err := psql().Select(detailsFields,
		"up.theme", "up.email_notifications", "up.sms_notifications",
		"up.push_notifications", "up.newsletter_subscribed", "up.privacy_settings").
		From(detailsTable + " ud").
		LeftJoin(preferencesTable + " up ON ud.user_id = up.user_id").
		Where(sq.Eq{"ud.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса полных данных: %w", err)
	}

	var c entities.CompleteUserData
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&c.UserID, &c.FirstName, &c.LastName, &c.Age, &c.Gender,
		&c.Country, &c.City, &c.Timezone, &c.Language,
		&c.RegistrationIP, &c.CollectedAt,
		&c.Theme, &c.EmailNotifications, &c.SMSNotifications,
		&c.PushNotifications, &c.NewsletterSubscribed, &c.PrivacySettings,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения полных данных пользователя: %w", err)
	}
	return &c, nil
}

// FindProfile возвращает профиль с контактами аккаунта и активными ролями.
// Пустой Roles означает, что назначений нет; роль по умолчанию подставляет сервис.
func (r *UserRepository) FindProfile(ctx context.Context, userID uint64) (*entities.Profile, error) {
	query, args, err := psql().Select(
		"ud.user_id", "ud.first_name", "ud.last_name", "u.user_email", "u.user_phone",
		"ud.age", "ud.gender", "ud.country", "ud.city", "ud.timezone", "ud.language",
		"COALESCE((SELECT array_agg(ur.role_name ORDER BY ur.role_name) FROM "+rolesTable+" ur WHERE ur.user_id = ud.user_id AND ur.is_active = true), '{}')",
	).
		From(detailsTable + " ud").
		LeftJoin(accountsTable + " u ON ud.user_id = u.user_id").
		Where(sq.Eq{"ud.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса профиля: %w", err)
	}

	var p entities.Profile
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.Age, &p.Gender, &p.Country, &p.City, &p.Timezone, &p.Language,
		&p.Roles,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения профиля: %w", err)
	}
	return &p, nil
}

// buildUpdateDetailsQuery собирает UPDATE только из переданных полей.
// ok=false, если обновлять нечего.
func buildUpdateDetailsQuery(userID uint64, d dto.UpdateProfileDTO) (string, []interface{}, bool, error) {
	builder := psql().Update(detailsTable + " AS ud")
	set := 0
	setIf := func(col string, valid bool, value interface{}) {
		if valid {
			builder = builder.Set(col, value)
			set++
		}
	}
	setIf("first_name", d.FirstName.Valid, d.FirstName.String)
	setIf("last_name", d.LastName.Valid, d.LastName.String)
	setIf("age", d.Age.Valid, d.Age.Int)
	setIf("gender", d.Gender.Valid, d.Gender.String)
	setIf("country", d.Country.Valid, d.Country.String)
	setIf("city", d.City.Valid, d.City.String)
	setIf("timezone", d.Timezone.Valid, d.Timezone.String)
	setIf("language", d.Language.Valid, d.Language.String)
	if set == 0 {
		return "", nil, false, nil
	}

	query, args, err := builder.
		Where(sq.Eq{"ud.user_id": userID}).
		Suffix("RETURNING " + detailsFields).
		ToSql()
	return query, args, true, err
}

func (r *UserRepository) UpdateDetails(ctx context.Context, userID uint64, d dto.UpdateProfileDTO) (*entities.UserDetails, error) {
	query, args, ok, err := buildUpdateDetailsQuery(userID, d)
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса обновления: %w", err)
	}
	if !ok {
		return r.FindDetails(ctx, userID)
	}

	details, err := scanDetails(r.storage.QueryRow(ctx, query, args...))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("ошибка обновления деталей пользователя: %w", err)
	}
	if err == nil {
		r.logger.Info("Детали пользователя обновлены", zap.Uint64("userID", userID))
	}
	return details, err
}

func buildSearchQuery(q dto.UserSearchQuery) sq.SelectBuilder {
	builder := psql().Select(
		"ud.user_id", "ud.first_name", "ud.last_name", "ud.age", "ud.gender", "ud.country", "ud.city",
	).From(detailsTable + " ud")
	builder = db.ApplySearch(builder, q.Query, userSearchColumns)
	return builder.OrderBy("ud.collected_at DESC", "ud.user_id").
		Limit(q.Limit).
		Offset(q.Offset)
}

func (r *UserRepository) Search(ctx context.Context, q dto.UserSearchQuery) ([]entities.UserSummary, error) {
	query, args, err := buildSearchQuery(q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки поискового запроса: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пользователей: %w", err)
	}
	defer rows.Close()

	users := make([]entities.UserSummary, 0)
	for rows.Next() {
		var u entities.UserSummary
		if err := rows.Scan(&u.UserID, &u.FirstName, &u.LastName, &u.Age, &u.Gender, &u.Country, &u.City); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки поиска: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// listFilter переводит запрос админки в общий Filter.
func listFilter(q dto.UserListQuery) types.Filter {
	f := types.Filter{
		Search:         q.Search,
		Filter:         map[string]interface{}{},
		Sort:           map[string]string{q.SortBy: q.SortOrder},
		Limit:          q.Limit,
		Offset:         q.Offset(),
		WithPagination: true,
	}
	if q.Gender != "" {
		f.Filter["gender"] = q.Gender
	}
	if q.Country != "" {
		f.Filter["country"] = q.Country
	}
	return f
}

func applyListWhere(builder sq.SelectBuilder, q dto.UserListQuery, f types.Filter) sq.SelectBuilder {
	builder = db.ApplySearch(builder, f.Search, userSearchColumns)
	if lo, hi, ok := q.AgeRange(); ok {
		builder = db.ApplyRange(builder, "ud.age", lo, hi)
	}
	return builder
}

func buildListQueries(q dto.UserListQuery) (count sq.SelectBuilder, list sq.SelectBuilder) {
	f := listFilter(q)

	count = psql().Select("COUNT(*)").From(detailsTable + " ud")
	count = db.ApplyFilters(count, f, userListAllowedFields)
	count = applyListWhere(count, q, f)

	list = psql().Select(detailsFields, "up.email_notifications", "up.newsletter_subscribed").
		From(detailsTable + " ud").
		LeftJoin(preferencesTable + " up ON ud.user_id = up.user_id")
	list = applyListWhere(list, q, f)
	list = db.ApplyListParams(list, f, userListAllowedFields).OrderBy("ud.user_id")
	return count, list
}

func (r *UserRepository) List(ctx context.Context, q dto.UserListQuery) ([]entities.UserListItem, uint64, error) {
	countBuilder, listBuilder := buildListQueries(q)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки COUNT-запроса: %w", err)
	}
	r.logger.Debug("Подсчет пользователей", zap.String("query", countQuery), zap.Any("args", countArgs))

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	if total == 0 {
		return []entities.UserListItem{}, 0, nil
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}
	defer rows.Close()

	users := make([]entities.UserListItem, 0, q.Limit)
	for rows.Next() {
		var u entities.UserListItem
		if err := rows.Scan(
			&u.UserID, &u.FirstName, &u.LastName, &u.Age, &u.Gender,
			&u.Country, &u.City, &u.Timezone, &u.Language,
			&u.RegistrationIP, &u.CollectedAt,
			&u.EmailNotifications, &u.NewsletterSubscribed,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки пользователя: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}
