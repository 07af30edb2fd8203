package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/EcoQuest_Go/internal/dailyprogress"
	"github.com/osse101/EcoQuest_Go/internal/handler"
	"github.com/osse101/EcoQuest_Go/internal/logger"
	"github.com/osse101/EcoQuest_Go/internal/metrics"
	"github.com/osse101/EcoQuest_Go/internal/mission"
	"github.com/osse101/EcoQuest_Go/internal/recycling"
	"github.com/osse101/EcoQuest_Go/internal/sse"
	"github.com/osse101/EcoQuest_Go/internal/userstats"
)

// Config holds the HTTP surface settings
type Config struct {
	Port   int
	APIKey string
	// Version is reported by /version
	Version        string
	TrustedProxies []string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxBodyBytes   int64
}

// Services are the domain services exposed over HTTP
type Services struct {
	Stats     userstats.Service
	Missions  mission.Service
	Daily     dailyprogress.Service
	Recycling recycling.Service
	Hub       *sse.Hub
	// Readiness lists the dependencies pinged by /readyz
	Readiness map[string]handler.HealthChecker
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(cfg Config, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(cfg, svc),
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the middleware stack and routes
func NewRouter(cfg Config, svc Services) chi.Router {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(AuthMiddleware(cfg.APIKey, cfg.TrustedProxies, detector))
	r.Use(RateLimitMiddleware(cfg.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(cfg.MaxBodyBytes))
	r.Use(metrics.Middleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.Readiness))
	r.Get("/version", handler.HandleVersion(cfg.Version))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	users := handler.NewUserHandler(svc.Stats)
	missions := handler.NewMissionHandler(svc.Missions, svc.Daily)
	recycled := handler.NewRecyclingHandler(svc.Recycling)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", users.HandleGetCatalog)

		r.Route("/users/{"+handler.ParamUserID+"}", func(r chi.Router) {
			r.Post("/profile", users.HandleEnsureProfile)
			r.Get("/stats", users.HandleGetStats)
			r.Post("/achievements/check", users.HandleCheckAchievements)
			r.Post("/badges/check", users.HandleCheckBadges)

			r.Route("/missions", func(r chi.Router) {
				r.Get("/", missions.HandleGetMissions)
				r.Get("/summary", missions.HandleGetSummary)
				r.Post("/sync", missions.HandleSync)
				r.Post("/{"+handler.ParamMissionID+"}/progress", missions.HandleUpdateProgress)
				r.Post("/{"+handler.ParamMissionID+"}/complete", missions.HandleComplete)
			})

			r.Get("/daily-progress", missions.HandleGetDailyProgress)

			r.Route("/recycling", func(r chi.Router) {
				r.Post("/", recycled.HandleRecord)
				r.Post("/classification", recycled.HandleRecordClassification)
				r.Get("/stats", recycled.HandleGetStats)
				r.Get("/recent", recycled.HandleGetRecent)
			})

			if svc.Hub != nil {
				r.Get("/events", sse.Handler(svc.Hub, func(r *http.Request) string {
					return chi.URLParam(r, handler.ParamUserID)
				}))
			}
		})
	})

	return r
}

// loggingMiddleware tags each API request with a request id (reusing the
// caller's X-Request-ID when sane) and logs it with secrets redacted.
// Health check and scrape paths are not logged.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > MaxRequestIDLength {
			requestID = logger.GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
