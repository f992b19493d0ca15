package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/routekit/internal/catalog"
	"github.com/simp-lee/routekit/internal/config"
	"github.com/simp-lee/routekit/internal/domain"
	"github.com/simp-lee/routekit/internal/middleware"
	"github.com/simp-lee/routekit/internal/module/notes"
	"github.com/simp-lee/routekit/internal/module/status"
	"github.com/simp-lee/routekit/internal/registry"
)

// Version is reported by the status.version handler. Set it at build time:
//
//	go build -ldflags "-X github.com/simp-lee/routekit/internal/app.Version=1.0.0"
var Version = "dev"

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine   *gin.Engine
	db       *gorm.DB
	logger   *logger.Logger
	cfg      *config.Config
	registry *registry.Registry
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging and the database, installs the bundled service modules
// in a handler catalog, builds the gin engine with its middleware and
// registers every route discovered in the services directory.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Setup database.
	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := config.CloseDatabase(db); err != nil {
			slog.Error("database close error", slog.Any("error", err))
		}
	}()

	if err := db.AutoMigrate(&domain.Note{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	// 3. Named handlers for the manifests.
	cat := catalog.New(log.Logger)
	cat.Install(
		notes.NewModule(db),
		status.NewModule(db, Version),
	)

	// 4. Gin engine. Error stages run inside Recovery so a panic that escapes
	// them is still shielded.
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestID(),
		middleware.Logger(log.Logger),
		middleware.LogErrors(log.Logger),
		middleware.ShieldErrors(),
	)

	// 5. Routes.
	reg, err := RegisterRoutes(engine, &RouteDeps{
		Catalog: cat,
		Routes:  cfg.Routes,
		Logger:  log.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine:   engine,
		db:       db,
		logger:   log,
		cfg:      cfg,
		registry: reg,
	}, nil
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// Handler returns the HTTP handler serving the application.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Registry returns the route registry built at startup.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Close releases the database and the logger without serving.
func (a *App) Close() error {
	var errs []error
	if err := config.CloseDatabase(a.db); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close logger: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It shuts down gracefully within server.shutdown_timeout and closes the
// database connection.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	if err := config.CloseDatabase(a.db); err != nil {
		log.Error("database close error", slog.Any("error", err))
	} else if a.db != nil {
		log.Info("database connection closed")
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
