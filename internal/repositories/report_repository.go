package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"user-service/internal/entities"
)

// Измерения, по которым разрешено строить распределения.
const (
	DimensionGender   = "gender"
	DimensionCountry  = "country"
	DimensionLanguage = "language"
	DimensionTimezone = "timezone"
)

var distributionColumns = map[string]string{
	DimensionGender:   "gender",
	DimensionCountry:  "country",
	DimensionLanguage: "language",
	DimensionTimezone: "timezone",
}

const ageGroupExpr = `CASE
	WHEN age BETWEEN 13 AND 17 THEN '13-17'
	WHEN age BETWEEN 18 AND 24 THEN '18-24'
	WHEN age BETWEEN 25 AND 34 THEN '25-34'
	WHEN age BETWEEN 35 AND 44 THEN '35-44'
	WHEN age BETWEEN 45 AND 54 THEN '45-54'
	WHEN age BETWEEN 55 AND 64 THEN '55-64'
	WHEN age >= 65 THEN '65+'
	ELSE 'Unknown'
END`

type ReportRepositoryInterface interface {
	CountUsers(ctx context.Context) (int64, error)
	AverageAge(ctx context.Context) (float64, error)
	// Distribution группирует по измерению; limit 0 — без ограничения.
	Distribution(ctx context.Context, dimension string, limit uint64) ([]entities.Bucket, error)
	AgeGroups(ctx context.Context) ([]entities.Bucket, error)
	RegistrationTrend(ctx context.Context, days int) ([]entities.Bucket, error)
}

type reportRepository struct {
	db querier
}

func NewReportRepository(db *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{db: db}
}

func (r *reportRepository) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+detailsTable).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	return total, nil
}

func (r *reportRepository) AverageAge(ctx context.Context) (float64, error) {
	var avg float64
	query := "SELECT COALESCE(ROUND(AVG(age)::numeric, 2), 0)::float8 FROM " + detailsTable
	if err := r.db.QueryRow(ctx, query).Scan(&avg); err != nil {
		return 0, fmt.Errorf("ошибка расчета среднего возраста: %w", err)
	}
	return avg, nil
}

func buildDistributionQuery(dimension string, limit uint64) (sq.SelectBuilder, error) {
	col, ok := distributionColumns[dimension]
	if !ok {
		return sq.SelectBuilder{}, fmt.Errorf("неизвестное измерение распределения: %q", dimension)
	}
	builder := psql().Select(fmt.Sprintf("COALESCE(%s::text, 'Unknown') AS label", col), "COUNT(*) AS count").
		From(detailsTable).
		GroupBy("1").
		OrderBy("count DESC", "label")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	return builder, nil
}

func (r *reportRepository) Distribution(ctx context.Context, dimension string, limit uint64) ([]entities.Bucket, error) {
	builder, err := buildDistributionQuery(dimension, limit)
	if err != nil {
		return nil, err
	}
	return r.buckets(ctx, builder)
}

func (r *reportRepository) AgeGroups(ctx context.Context) ([]entities.Bucket, error) {
	builder := psql().Select(ageGroupExpr+" AS label", "COUNT(*) AS count").
		From(detailsTable).
		GroupBy("1").
		OrderBy("label")
	return r.buckets(ctx, builder)
}

func buildRegistrationTrendQuery(days int) sq.SelectBuilder {
	return psql().Select("to_char(DATE(collected_at), 'YYYY-MM-DD') AS label", "COUNT(*) AS count").
		From(detailsTable).
		Where(sq.Expr("collected_at >= CURRENT_DATE - make_interval(days => ?)", days)).
		GroupBy("1").
		OrderBy("label DESC")
}

func (r *reportRepository) RegistrationTrend(ctx context.Context, days int) ([]entities.Bucket, error) {
	return r.buckets(ctx, buildRegistrationTrendQuery(days))
}

func (r *reportRepository) buckets(ctx context.Context, builder sq.SelectBuilder) ([]entities.Bucket, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса статистики: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса статистики: %w", err)
	}
	defer rows.Close()

	result := make([]entities.Bucket, 0)
	for rows.Next() {
		var b entities.Bucket
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки статистики: %w", err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}
