package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Gatherer supplies /metrics.
	Gatherer prometheus.Gatherer

	// Online returns the number of identity keys currently online.
	Online func() int

	// Version is reported by /healthz.
	Version string

	Logger *slog.Logger
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Online  int    `json:"online"`
	Version string `json:"version"`
}

// NewRouter creates the ops router.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		online := 0
		if cfg.Online != nil {
			online = cfg.Online()
		}
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Online:  online,
			Version: cfg.Version,
		})
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}))

	return Chain(mux, Recover(logger), RequestID(), AccessLog(logger))
}
