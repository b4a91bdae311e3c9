package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/insidehealthgt/hms/audit"
	"github.com/insidehealthgt/hms/authenticator"
	"github.com/insidehealthgt/hms/config"
	"github.com/insidehealthgt/hms/controllers"
	"github.com/insidehealthgt/hms/database"
	appmiddleware "github.com/insidehealthgt/hms/middleware"
	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/repositories"
	"github.com/insidehealthgt/hms/services"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}

// newLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// app holds everything run needs to serve and shut down
type app struct {
	router http.Handler
	tm     *database.TxManager
}

// build wires the audit pipeline, repositories, services and routes
func build(ctx context.Context, cfg config.Config, db *sql.DB, log *logrus.Logger) (*app, error) {
	var txOpts []database.TxOption
	if cfg.AuditAsync {
		txOpts = append(txOpts, database.WithAsyncHooks())
	}
	tm := database.NewTxManager(db, log, txOpts...)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := audit.NewMetrics(reg)

	// The audit repository is built first: the writer needs it and the
	// remaining repositories need the interceptor.
	auditRepo := repositories.NewAuditRepository(db)
	interceptor := audit.NewInterceptor(
		audit.LocatorFunc(database.Locate),
		audit.NewWriter(auditRepo, log.WithField("component", "audit"), metrics),
		audit.NewSerializer(cfg.AuditRedactFields...),
		log.WithField("component", "audit"),
		audit.WithMetrics(metrics),
	)
	repos := repositories.NewRepositories(db, interceptor)
	srvs := services.NewServices(repos, tm, cfg.AuditPageSize)

	var provider authenticator.Provider
	if cfg.OIDC.Enabled() {
		p, err := authenticator.NewOpenIDProvider(ctx, cfg.OIDC)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OIDC provider: %w", err)
		}
		provider = p
	} else {
		log.Warn("OIDC is not configured, API requests run without an authenticated actor")
	}

	ctrl := controllers.NewControllers(srvs, provider, log)
	router, err := setupRouter(cfg, ctrl, reg, provider != nil, log)
	if err != nil {
		return nil, err
	}
	return &app{router: router, tm: tm}, nil
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	db, err := database.Initialize(cfg.DatabasePath, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	a, err := build(ctx, cfg, db, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "database": cfg.DatabasePath}).Info("HMS starting")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP server did not drain cleanly")
		}
	}

	// Pending audit writes finish before the database closes
	a.tm.Wait()
	return nil
}

// setupRouter configures all routes
func setupRouter(cfg config.Config, ctrl *controllers.Controllers, reg *prometheus.Registry, requireAuth bool, log logrus.FieldLogger) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(appmiddleware.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // 60 second timeout for OAuth callbacks
	r.Use(appmiddleware.AuditContext)

	lifetime := int64(cfg.SessionLifetime / time.Second)
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "hms_session",
		Secure:         cfg.UseHTTPS,
		Gclifetime:     lifetime,
		Maxlifetime:    lifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// PUBLIC ROUTES (no authentication required)
	r.Get("/login", ctrl.Auth.Login)
	r.Get("/callback", ctrl.Auth.Callback)
	r.Get("/logout", ctrl.Auth.Logout)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "hms"}`)
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// PROTECTED ROUTES (authentication required)
	r.Group(func(r chi.Router) {
		if !requireAuth {
			ctrl.RegisterAPI(r)
			return
		}
		r.Use(appmiddleware.RequireAuth)
		ctrl.RegisterAPI(r, appmiddleware.RequireRole(models.RoleAdmin))
	})

	return r, nil
}
