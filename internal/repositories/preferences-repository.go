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
	apperrors "user-service/pkg/errors"
)

const preferencesTable = "votteryy_user_preferences"

// NULL в колонке читается как значение по умолчанию
const preferencesFields = "user_id, COALESCE(theme, 'light'), COALESCE(email_notifications, true), COALESCE(sms_notifications, true), " +
	"COALESCE(push_notifications, true), COALESCE(newsletter_subscribed, false), COALESCE(privacy_settings, '{}'::jsonb), updated_at"

type PreferencesRepositoryInterface interface {
	Find(ctx context.Context, userID uint64) (*entities.UserPreferences, error)
	CreateDefault(ctx context.Context, userID uint64) (*entities.UserPreferences, error)
	Update(ctx context.Context, userID uint64, d dto.UpdatePreferencesDTO) (*entities.UserPreferences, error)
}

type PreferencesRepository struct {
	storage querier
	logger  *zap.Logger
}

func NewPreferencesRepository(storage *pgxpool.Pool, logger *zap.Logger) PreferencesRepositoryInterface {
	return &PreferencesRepository{storage: storage, logger: logger}
}

func scanPreferences(row pgx.Row) (*entities.UserPreferences, error) {
	var p entities.UserPreferences
	err := row.Scan(
		&p.UserID, &p.Theme, &p.EmailNotifications, &p.SMSNotifications,
		&p.PushNotifications, &p.NewsletterSubscribed, &p.PrivacySettings, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PreferencesRepository) Find(ctx context.Context, userID uint64) (*entities.UserPreferences, error) {
	query, args, err := psql().Select(preferencesFields).
		From(preferencesTable).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса предпочтений: %w", err)
	}
	prefs, err := scanPreferences(r.storage.QueryRow(ctx, query, args...))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("ошибка получения предпочтений: %w", err)
	}
	return prefs, err
}

// buildCreateDefaultPreferencesQuery: при конфликте по user_id строка не меняется,
// RETURNING отдаёт уже существующие настройки.
func buildCreateDefaultPreferencesQuery(userID uint64) (string, []interface{}, error) {
	return psql().Insert(preferencesTable).
		Columns("user_id", "theme", "email_notifications", "sms_notifications",
			"push_notifications", "newsletter_subscribed", "privacy_settings").
		Values(userID, entities.DefaultTheme, true, true, true, false, sq.Expr("'{}'::jsonb")).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id RETURNING " + preferencesFields).
		ToSql()
}

// CreateDefault вставляет строку с настройками по умолчанию либо возвращает
// существующую, если её успел создать параллельный запрос.
func (r *PreferencesRepository) CreateDefault(ctx context.Context, userID uint64) (*entities.UserPreferences, error) {
	query, args, err := buildCreateDefaultPreferencesQuery(userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса создания предпочтений: %w", err)
	}
	prefs, err := scanPreferences(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания предпочтений: %w", err)
	}
	r.logger.Info("Предпочтения по умолчанию обеспечены", zap.Uint64("userID", userID))
	return prefs, nil
}

func buildUpdatePreferencesQuery(userID uint64, d dto.UpdatePreferencesDTO) (string, []interface{}, bool, error) {
	builder := psql().Update(preferencesTable)
	set := 0
	setIf := func(col string, valid bool, value interface{}) {
		if valid {
			builder = builder.Set(col, value)
			set++
		}
	}
	setIf("theme", d.Theme.Valid, d.Theme.String)
	setIf("email_notifications", d.EmailNotifications.Valid, d.EmailNotifications.Bool)
	setIf("sms_notifications", d.SMSNotifications.Valid, d.SMSNotifications.Bool)
	setIf("push_notifications", d.PushNotifications.Valid, d.PushNotifications.Bool)
	setIf("newsletter_subscribed", d.NewsletterSubscribed.Valid, d.NewsletterSubscribed.Bool)
	setIf("privacy_settings", d.PrivacySettings.Valid, sq.Expr("?::jsonb", string(d.PrivacySettings.JSON)))
	if set == 0 {
		return "", nil, false, nil
	}

	query, args, err := builder.
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING " + preferencesFields).
		ToSql()
	return query, args, true, err
}

// Update меняет только переданные поля. Строки может не быть: тогда ErrNotFound.
func (r *PreferencesRepository) Update(ctx context.Context, userID uint64, d dto.UpdatePreferencesDTO) (*entities.UserPreferences, error) {
	query, args, ok, err := buildUpdatePreferencesQuery(userID, d)
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса обновления предпочтений: %w", err)
	}
	if !ok {
		return r.Find(ctx, userID)
	}

	prefs, err := scanPreferences(r.storage.QueryRow(ctx, query, args...))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("ошибка обновления предпочтений: %w", err)
	}
	if err == nil {
		r.logger.Info("Предпочтения обновлены", zap.Uint64("userID", userID))
	}
	return prefs, err
}
