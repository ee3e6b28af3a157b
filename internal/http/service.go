package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/openinventory/inventory-admin/internal/auth"
	"github.com/openinventory/inventory-admin/internal/config"
	"github.com/openinventory/inventory-admin/internal/http/metric"
	"github.com/openinventory/inventory-admin/internal/http/middleware"
	"github.com/openinventory/inventory-admin/internal/http/swagger"
	"github.com/openinventory/inventory-admin/internal/http/apierr"
	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/service"
)

var tracer = otel.Tracer("internal/http")

// AuthService is the slice of the auth service the transport needs.
type AuthService interface {
	auth.Authenticator
	Login(ctx context.Context, email, password string) (string, model.CallerIdentity, error)
	Logout(ctx context.Context, token string) error
}

// Service represents the HTTP service.
type Service struct {
	cfg     config.HTTP
	logger  *slog.Logger
	metrics *metric.Metrics

	authSvc      AuthService
	inventorySvc service.InventoryService
	dashboardSvc service.DashboardService
	settingsSvc  service.SettingsService
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	authSvc AuthService,
	inventorySvc service.InventoryService,
	dashboardSvc service.DashboardService,
	settingsSvc service.SettingsService,
) *Service {
	return &Service{
		cfg:          cfg,
		logger:       log.With(slog.String("service", "http")),
		metrics:      metric.New(),
		authSvc:      authSvc,
		inventorySvc: inventorySvc,
		dashboardSvc: dashboardSvc,
		settingsSvc:  settingsSvc,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return s.RunWithServer(ctx, r)
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(),
		middleware.Logging(s.logger),
	)
}

// RegisterHandlers mounts all routes. Everything except login, docs and
// metrics sits behind the access gate.
func (s *Service) RegisterHandlers(r chi.Router) {
	r.Post("/api/auth/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(s.authSvc))

		r.Post("/api/auth/logout", s.logout)

		r.Get("/api/products", s.listProducts)
		r.Post("/api/products", s.createProduct)
		r.Get("/api/products/{id}", s.getProduct)
		r.Put("/api/products/{id}", s.updateProduct)
		r.Delete("/api/products/{id}", s.deleteProduct)
		r.Post("/api/products/sell", s.sellProduct)

		r.Get("/api/dashboard", s.getDashboard)
		r.Get("/api/activities", s.listActivities)

		r.Get("/api/settings", s.getSettings)
		r.Put("/api/settings", s.updateSettings)
	})

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

func (s *Service) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding response",
			slog.Any("error", err))
	}
}

func (s *Service) respondError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}
