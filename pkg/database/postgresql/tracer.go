package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// QueryTracer пишет в лог медленные и упавшие запросы.
type QueryTracer struct {
	logger    *zap.Logger
	threshold time.Duration
}

func NewQueryTracer(logger *zap.Logger, threshold time.Duration) *QueryTracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryTracer{logger: logger, threshold: threshold}
}

func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, start: time.Now()})
}

func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := time.Since(qs.start)

	if data.Err != nil {
		t.logger.Debug("Ошибка SQL-запроса",
			zap.String("query", qs.sql),
			zap.Duration("duration", elapsed),
			zap.Error(data.Err),
		)
		return
	}
	if t.threshold > 0 && elapsed > t.threshold {
		t.logger.Warn("Медленный SQL-запрос",
			zap.String("query", qs.sql),
			zap.Duration("duration", elapsed),
			zap.String("command", data.CommandTag.String()),
		)
	}
}
