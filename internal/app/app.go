package app

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mcainsights/internal/config"
	"mcainsights/internal/dataset"
	"mcainsights/internal/errors"
	"mcainsights/internal/infrastructure"
	customMiddleware "mcainsights/internal/middleware"
	"mcainsights/internal/services"
	handlers "mcainsights/internal/transport/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

const compressionLevel = 5

var (
	// BuildTime is set at link time with -ldflags "-X mcainsights/internal/app.BuildTime=..."
	BuildTime = ""
	// BuildID is set at link time with -ldflags "-X mcainsights/internal/app.BuildID=..."
	BuildID = ""
)

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	Telemetry        *infrastructure.Telemetry
	Metrics          *infrastructure.DashboardMetrics
	Cache            *dataset.Cache
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	ErrorHandler     *errors.ErrorHandler
	Templates        *template.Template

	listener net.Listener
	serveWG  sync.WaitGroup
}

// NewApplication wires every component from cfg. Nothing is read from disk
// until the first request or the preload started by Start.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("build_id", BuildID))

	telemetry, err := infrastructure.NewTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	metrics, err := infrastructure.NewDashboardMetrics(telemetry.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	templates, err := handlers.ParseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &Application{
		Config:       cfg,
		Logger:       logger,
		Telemetry:    telemetry,
		Metrics:      metrics,
		Templates:    templates,
		ErrorHandler: errors.NewErrorHandler(logger, cfg.Logging.Level == "debug"),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	data := a.Config.Data
	loader := dataset.NewLoader(dataset.Sources{
		MasterPath:    data.MasterPath,
		ChangeLogPath: data.ChangeLogPath,
		EnrichedPath:  data.EnrichedPath,
		Encoding:      data.Encoding,
		DateLayout:    data.DateLayout,
		RegionColumns: data.RegionColumns,
	}, a.Logger, a.Metrics)
	a.Cache = dataset.NewCache(loader)

	a.DashboardService = services.NewDashboardService(a.Cache, data.PageSize, a.Metrics, a.Logger)
	a.HealthService = services.NewHealthService(config.AppVersion, BuildTime, BuildID, a.Cache, a.Logger)
}

// setupRouter configures the Chi router. Middleware order:
// RequestID → RealIP → OTel → Logger → Recoverer → SecureHeaders → RateLimit.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.Telemetry.Tracer, a.Metrics).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.DefaultSecureHeaders().Handler)

	if rl := a.Config.Security.RateLimit; rl.Enabled {
		r.Use(customMiddleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.ErrorHandler).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)
	a.setupPageRoutes(r)

	r.Handle("/static/*", handlers.StaticHandler("/static/"))

	// outside the timeout group so a slow scrape is never cut short
	if a.Telemetry.MetricsHandler != nil {
		r.Handle("/metrics", a.Telemetry.MetricsHandler)
	}

	a.Router = r
}

// setupAPIRoutes configures the JSON endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))

		r.Mount("/", healthHandler.Routes())
	})
}

// setupPageRoutes configures the dashboard page and the export downloads
func (a *Application) setupPageRoutes(r chi.Router) {
	validator := customMiddleware.NewQueryValidator()
	dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, validator, a.Templates, a.Logger, a.ErrorHandler)
	exportHandler := handlers.NewExportHandler(a.DashboardService, validator, a.Logger, a.ErrorHandler)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(customMiddleware.Compress(compressionLevel))

		r.Get("/", dashboardHandler.ServeDashboard)
		r.Mount("/export", exportHandler.Routes())
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start binds the listener, starts serving in the background and, when
// configured, begins loading the datasets. A serve failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln

	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("address", fmt.Sprintf("http://%s", ln.Addr())),
		slog.String("master_path", a.Config.Data.MasterPath),
		slog.String("change_log_path", a.Config.Data.ChangeLogPath),
		slog.String("enriched_path", a.Config.Data.EnrichedPath),
		slog.String("level", a.Config.Logging.Level))

	if a.Config.Data.Preload {
		go func() {
			if _, err := a.Cache.Get(infrastructure.EnsureTraceID(ctx)); err != nil {
				a.Logger.WarnContext(ctx, "Dataset preload failed; the dashboard will show the load error",
					slog.String("error", err.Error()))
			}
		}()
	}

	a.serveWG.Add(1)
	go func() {
		defer a.serveWG.Done()
		if err := a.Server.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Addr returns the bound listen address, or the configured one before Start.
func (a *Application) Addr() string {
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return a.Server.Addr
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	a.serveWG.Wait()

	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down telemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}
