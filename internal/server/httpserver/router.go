package httpserver

import (
	"net/http"

	"github.com/yndnr/miniredis-go/internal/server/httpserver/handler"
	"github.com/yndnr/miniredis-go/internal/telemetry/logger"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Health serves /healthz and /readyz.
	Health *handler.Handler

	// Metrics serves /metrics. Nil leaves the route unregistered.
	Metrics http.Handler

	// Logger for request logging.
	Logger logger.Logger

	// MetricsToken, when set, is required as a bearer token on /metrics.
	MetricsToken string

	// MetricsAllowList is the IP/CIDR allowlist for /metrics (empty = no restriction).
	MetricsAllowList []string

	// EnableAccessLog logs every request.
	EnableAccessLog bool
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	base := []Middleware{RequestID(), Recover(log)}
	if cfg.EnableAccessLog {
		base = append(base, AccessLog(log))
	}

	mux := http.NewServeMux()

	health := cfg.Health
	if health == nil {
		health = handler.New(nil, handler.WithLogger(log))
	}
	healthHandler := Chain(health, base...)
	mux.Handle("GET /healthz", healthHandler)
	mux.Handle("GET /readyz", healthHandler)

	if cfg.Metrics != nil {
		metrics := append([]Middleware{}, base...)
		if len(cfg.MetricsAllowList) > 0 {
			metrics = append(metrics, NetworkACL(&NetworkACLConfig{
				AllowList: cfg.MetricsAllowList,
				Logger:    log,
			}))
		}
		metrics = append(metrics, BearerAuth(cfg.MetricsToken))
		mux.Handle("GET /metrics", Chain(cfg.Metrics, metrics...))
	}

	return mux
}
