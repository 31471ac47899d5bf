package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"census-app-go/internal/config"
	"census-app-go/internal/db"
	censusdomain "census-app-go/internal/domain/census"
	evidencedomain "census-app-go/internal/domain/evidence"
	referencedomain "census-app-go/internal/domain/reference"
	scheduledomain "census-app-go/internal/domain/schedule"
	statsdomain "census-app-go/internal/domain/stats"
	userdomain "census-app-go/internal/domain/user"
	"census-app-go/internal/metrics"
	"census-app-go/internal/repository/inmemory"
	censusrepo "census-app-go/internal/repository/postgres/census"
	evidencerepo "census-app-go/internal/repository/postgres/evidence"
	referencerepo "census-app-go/internal/repository/postgres/reference"
	schedulerepo "census-app-go/internal/repository/postgres/schedule"
	statsrepo "census-app-go/internal/repository/postgres/stats"
	userrepo "census-app-go/internal/repository/postgres/user"
	"census-app-go/internal/storage"
	"census-app-go/internal/transport/httpserver"
	"census-app-go/internal/transport/httpserver/handler"
	"census-app-go/internal/transport/httpserver/handler/census"
	"census-app-go/internal/transport/httpserver/handler/common"
	"census-app-go/internal/transport/httpserver/handler/operations"
	"census-app-go/internal/transport/httpserver/handler/users"
	"census-app-go/internal/transport/httpserver/middleware"
	"census-app-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	store      storage.Store
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn, log); err != nil {
		closeDB(dbConn)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("app: initializing storage", "driver", cfg.Storage.Driver)
	store, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		closeDB(dbConn)
		return nil, fmt.Errorf("storage: %w", err)
	}

	log.Info("app: initializing router")
	router := NewHandler(cfg, dbConn, store, metrics.New(), log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		store:      store,
	}, nil
}

// NewHandler wires repositories, services and handlers on top of an open database and photo store.
func NewHandler(cfg config.Config, dbConn *gorm.DB, store storage.Store, m *metrics.Metrics, log logger.Logger) http.Handler {
	referenceRepo := referencerepo.NewPostgres(dbConn)
	censusRepo := censusrepo.NewPostgres(dbConn)
	scheduleRepo := schedulerepo.NewPostgres(dbConn)
	evidenceRepo := evidencerepo.NewPostgres(dbConn)
	userRepo := userrepo.NewPostgres(dbConn)
	statsRepo := statsrepo.NewPostgres(dbConn)

	referenceService := referencedomain.NewService(referenceRepo, inmemory.NewSectorCache())
	userService := userdomain.NewService(userRepo)
	censusService := censusdomain.NewService(censusRepo, referenceService, m)
	scheduleService := scheduledomain.NewService(scheduleRepo, referenceService, userService)
	evidenceService := evidencedomain.NewService(evidenceRepo, store, userService, scheduleService, evidencedomain.Options{
		MaxPhotoBytes: cfg.Evidence.MaxPhotoBytes,
		Resolver: evidencedomain.URLResolver{
			PublicBaseURL:  cfg.Storage.PublicBaseURL,
			StorageBaseURL: cfg.Storage.ServiceBaseURL,
		},
		Metrics: m,
	})
	statsService := statsdomain.NewDefaultService(statsRepo)

	sessions := middleware.NewSessionAuth(cfg.Auth, userService, log)
	limiter := middleware.NewLoginLimiter(cfg.Auth.LoginRate, cfg.Auth.LoginBurst, m.LoginThrottled)

	var pinger common.Pinger
	if sqlDB, err := dbConn.DB(); err == nil {
		pinger = sqlDB
	}

	handlers := handler.New(
		common.New(userService, sessions, pinger, log),
		census.New(censusService, referenceService, log),
		operations.New(scheduleService, evidenceService, store, cfg.Evidence.MaxPhotoBytes, log),
		users.New(userService, statsService, log),
	)

	var obs httpserver.Observability
	if cfg.MetricsEnabled {
		obs = m
	}
	return httpserver.NewRouter(cfg, handlers, sessions, limiter, obs)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}

func closeDB(dbConn *gorm.DB) {
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
