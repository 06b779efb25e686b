package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics — счётчики сервиса. Нулевой указатель допустим: все методы
// становятся no-op, поэтому в тестах метрики можно не создавать.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	guardDecisions      *prometheus.CounterVec
	roleResolutions     *prometheus.CounterVec
	identitySources     *prometheus.CounterVec
}

func New(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Количество обработанных HTTP-запросов",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_guard_decisions_total",
			Help: "Решения гвардов доступа",
		}, []string{"guard", "result"}), // result: allow|deny
		roleResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authz_role_resolutions_total",
			Help: "Источник, из которого разрешены роли",
		}, []string{"source"}), // source: header|store|default|fail_open
		identitySources: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "identity_extractions_total",
			Help: "Источник, из которого извлечён userId",
		}, []string{"source"}),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequestsTotal, m.httpRequestDuration, m.guardDecisions, m.roleResolutions, m.identitySources,
	} {
		if err := registerCollector(registry, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RegisterPool добавляет gauges пула соединений.
func (m *Metrics) RegisterPool(pool *pgxpool.Pool) error {
	if m == nil || pool == nil {
		return nil
	}
	return registerCollector(m.registry, newDBPoolCollector(pool))
}

// Handler отдаёт /metrics из собственного реестра.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware считает запросы по шаблону маршрута, а не по сырому пути.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			method := c.Request().Method
			m.httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			return err
		}
	}
}

func (m *Metrics) ObserveGuard(guard string, allowed bool) {
	if m == nil {
		return
	}
	result := "deny"
	if allowed {
		result = "allow"
	}
	m.guardDecisions.WithLabelValues(guard, result).Inc()
}

func (m *Metrics) ObserveRoleSource(source string) {
	if m == nil {
		return
	}
	m.roleResolutions.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveIdentitySource(source string) {
	if m == nil {
		return
	}
	m.identitySources.WithLabelValues(source).Inc()
}

// registerCollector регистрирует коллектор, повторная регистрация не ошибка.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

type dbPoolCollector struct {
	pool *pgxpool.Pool

	acquiredDesc *prometheus.Desc
	idleDesc     *prometheus.Desc
	totalDesc    *prometheus.Desc
	maxDesc      *prometheus.Desc
}

func newDBPoolCollector(pool *pgxpool.Pool) *dbPoolCollector {
	return &dbPoolCollector{
		pool:         pool,
		acquiredDesc: prometheus.NewDesc("pgxpool_acquired_conns", "Занятые соединения пула", nil, nil),
		idleDesc:     prometheus.NewDesc("pgxpool_idle_conns", "Свободные соединения пула", nil, nil),
		totalDesc:    prometheus.NewDesc("pgxpool_total_conns", "Все открытые соединения пула", nil, nil),
		maxDesc:      prometheus.NewDesc("pgxpool_max_conns", "Предел соединений пула", nil, nil),
	}
}

func (c *dbPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredDesc
	ch <- c.idleDesc
	ch <- c.totalDesc
	ch <- c.maxDesc
}

func (c *dbPoolCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(stat.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.maxDesc, prometheus.GaugeValue, float64(stat.MaxConns()))
}
