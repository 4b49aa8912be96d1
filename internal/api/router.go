package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/devlinb/EscapeRoom/internal/api/middleware"
	"github.com/devlinb/EscapeRoom/internal/config"
	"github.com/devlinb/EscapeRoom/internal/escaperoom"
	"github.com/devlinb/EscapeRoom/internal/handlers"
	"github.com/devlinb/EscapeRoom/internal/store"
)

const maxBodyBytes = 64 * 1024

// Per-route limits, counted per client IP.
var (
	createOrLoadLimit  = middleware.RateLimit{Name: "create_or_load", Requests: 30, Window: time.Minute}
	saveRoomLimit      = middleware.RateLimit{Name: "save_room", Requests: 30, Window: time.Minute}
	getPuzzleLimit     = middleware.RateLimit{Name: "get_puzzle", Requests: 120, Window: time.Minute}
	checkSolutionLimit = middleware.RateLimit{Name: "check_solution", Requests: 60, Window: time.Minute}
)

// NewRouter creates and configures the HTTP router. redisClient may be nil,
// in which case rate limiting is disabled.
func NewRouter(logger zerolog.Logger, cfg *config.Config, svc *escaperoom.Service, ds store.DocumentStore, redisClient *redis.Client) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders(cfg.BasePath+"/", cfg.BasePath+"/static/"))
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - the frontend may be hosted elsewhere
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(svc, ds)
	limiter := middleware.NewRateLimiter(redisClient, logger, middleware.RateLimiterConfig{
		Whitelist:        cfg.RateLimitWhitelist,
		AutoBlockEnabled: cfg.AutoBlockEnabled,
	})
	frontend := cfg.FrontendDir

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	routes := func(r chi.Router) {
		// Frontend
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(frontend, "index.html"))
		})
		r.Handle("/static/*", http.StripPrefix(cfg.BasePath+"/static/", http.FileServer(http.Dir(staticDir(frontend)))))

		r.Get("/api", h.Root)
		r.Get("/health", h.Health)

		r.With(limiter.Limit(createOrLoadLimit)).Post("/createOrLoadEscapeRoom", h.CreateOrLoad)
		r.With(limiter.Limit(saveRoomLimit)).Post("/saveEscapeRoom", h.SaveRoom)
		r.With(limiter.Limit(checkSolutionLimit)).Post("/checkSolution", h.CheckSolution)
		r.With(limiter.Limit(getPuzzleLimit)).Get("/{agentName}/{puzzleId}", h.GetPuzzle)
	}

	if cfg.BasePath == "" {
		routes(r)
	} else {
		r.Route(cfg.BasePath, routes)
	}

	return r
}

// staticDir returns the directory holding static assets, preferring a
// "static" subdirectory of the frontend when one exists.
func staticDir(frontend string) string {
	dir := filepath.Join(frontend, "static")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return frontend
}
