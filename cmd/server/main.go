package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/flock/internal/config"
	"github.com/mamadbah2/flock/internal/repository"
	"github.com/mamadbah2/flock/internal/repository/memory"
	"github.com/mamadbah2/flock/internal/repository/mongodb"
	"github.com/mamadbah2/flock/internal/repository/sheets"
	"github.com/mamadbah2/flock/internal/scheduler"
	"github.com/mamadbah2/flock/internal/server/handlers"
	"github.com/mamadbah2/flock/internal/server/router"
	reportingsvc "github.com/mamadbah2/flock/internal/service/reporting"
	"github.com/mamadbah2/flock/pkg/clients/supabase"
	"github.com/mamadbah2/flock/pkg/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Env))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, closeStore, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeStore()

	var exporter sheets.Exporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger)
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = sheetsRepo
		baseLogger.Info("google sheets export enabled")
	} else {
		baseLogger.Warn("google sheets credentials missing, sheet export disabled")
	}

	reportingSvc := reportingsvc.NewService(store, baseLogger)
	handler := handlers.NewHandler(handlers.Dependencies{
		Store:      store,
		Reporting:  reportingSvc,
		Exporter:   exporter,
		SheetRange: cfg.Sheets.Range,
		JWTSecret:  cfg.Auth.JWTSecret,
		Logger:     baseLogger,
	})
	engine := router.New(handler, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(*cfg, reportingSvc, exporter, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMongoDB:
		client, err := mongodb.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, log)
		if err != nil {
			return repository.Store{}, nil, err
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			log.Warn("failed to ensure mongodb indexes", zap.Error(err))
		}
		closeFn := func() {
			if err := client.Close(context.Background()); err != nil {
				log.Error("failed to close mongodb connection", zap.Error(err))
			}
		}
		return client.Store(), closeFn, nil
	case config.BackendSupabase:
		return supabase.NewClient(cfg.Supabase).Store(), func() {}, nil
	case config.BackendMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	default:
		return repository.Store{}, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
