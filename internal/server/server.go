package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/balancesheet-pro/apiserver/config"
	"github.com/balancesheet-pro/apiserver/internal/db"
	"github.com/balancesheet-pro/apiserver/internal/handlers"
	"github.com/balancesheet-pro/apiserver/internal/log"
	"github.com/balancesheet-pro/apiserver/internal/metrics"
	"github.com/balancesheet-pro/apiserver/internal/mq"
	"github.com/balancesheet-pro/apiserver/internal/services"
	"github.com/balancesheet-pro/apiserver/internal/storage"
	"github.com/balancesheet-pro/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 60 * time.Second

// Dependencies are the collaborators mounted by NewRouter.
type Dependencies struct {
	Users      *services.UserService
	Ledger     *services.LedgerService
	Statements *services.StatementService
	Metrics    *metrics.Metrics
	DB         handlers.Pinger
	Logger     *log.Logger
	JWTSecret  string
	TokenTTL   time.Duration
}

// NewRouter builds the HTTP routes and middleware chain.
func NewRouter(deps Dependencies) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		log.RequestLogger(logger),
	)
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware)
	}
	router.Use(middleware.Timeout(requestTimeout))

	router.Get("/healthz", handlers.Healthz)
	if deps.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
	if deps.DB != nil {
		router.Get("/readyz", handlers.Readyz(deps.DB))
	}

	authHandler := handlers.NewAuthHandler(deps.Users, deps.JWTSecret, deps.TokenTTL, logger)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler)
	})

	router.Group(func(r chi.Router) {
		r.Use(authHandler.RequireAuth)
		handlers.LedgerRouter(r, handlers.NewLedgerHandler(deps.Ledger, logger))
		handlers.ReportRouter(r, handlers.NewReportHandler(deps.Ledger, deps.Statements, logger))
	})

	return router
}

// Server wraps the HTTP server and the connections it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     mq.Backend
	objects    storage.ObjectStorage
	logger     *log.Logger
}

// New validates cfg, connects every backend and assembles the router.
func New(ctx context.Context, cfg config.Config, logger *log.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	if cfg.Database.AutoMigrate {
		if err := db.MigrateUp(cfg); err != nil {
			return nil, err
		}
		logger.WithComponent(log.ComponentMigrate).Info("migrations applied", "driver", cfg.Database.Driver)
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &Server{db: dbConn, logger: logger}

	broker, err := mq.NewFromConfig(ctx, cfg.MQ)
	if err != nil {
		s.closeBackends()
		return nil, fmt.Errorf("connect mq: %w", err)
	}
	s.broker = broker

	objects, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		s.closeBackends()
		return nil, fmt.Errorf("connect storage: %w", err)
	}
	s.objects = objects

	m := metrics.New()
	ledgerOpts := []services.LedgerOption{
		services.WithRecorder(m),
		services.WithLogger(logger),
	}
	if broker != nil {
		ledgerOpts = append(ledgerOpts, services.WithPublisher(mq.NewEventPublisher(broker, cfg.MQ.Channel)))
	}

	userService := services.NewUserService(store.NewUserRepository(dbConn))
	ledgerService := services.NewLedgerService(store.NewLedgerRepository(dbConn), ledgerOpts...)
	statementService := services.NewStatementService(ledgerService, objects)

	s.router = NewRouter(Dependencies{
		Users:      userService,
		Ledger:     ledgerService,
		Statements: statementService,
		Metrics:    m,
		DB:         dbConn,
		Logger:     logger,
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
	})

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server configured",
		"port", cfg.ServerPort,
		"db_driver", cfg.Database.Driver,
		"mq_backend", cfg.MQ.Backend,
		"storage_backend", cfg.Storage.Backend,
	)
	return s, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and then closes every backend.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.closeBackends()
	return err
}

func (s *Server) closeBackends() {
	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			s.logger.Warn("close mq", log.FieldError, err)
		}
	}
	if s.objects != nil {
		if err := s.objects.Close(); err != nil {
			s.logger.Warn("close storage", log.FieldError, err)
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}
