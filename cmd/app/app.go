package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/questevent/questevent-api/internal/api"
	"github.com/questevent/questevent-api/internal/config"
	"github.com/questevent/questevent-api/internal/db"
	"github.com/questevent/questevent-api/internal/logger"
	"github.com/questevent/questevent-api/internal/scheduler"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	level, err := logger.Init(conf.API.Environment, conf.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	config.Watch(configPath, func(reloaded *config.AppConfig) {
		if err := logger.SetLevel(level, reloaded.Log.Level); err != nil {
			zap.L().Warn("ignoring log level from reloaded config", zap.Error(err))
			return
		}
		zap.L().Info("config reloaded", zap.String("log_level", reloaded.Log.Level))
	}, func(err error) {
		zap.L().Warn("config watch", zap.Error(err))
	})

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL, conf.Postgres)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	clock := clockwork.NewRealClock()
	s := api.NewServer(conf, postgresDB, clock)

	if conf.Settlement.Enabled {
		sched, err := scheduler.New(conf.Settlement, clock, s.Settlement)
		if err != nil {
			return fmt.Errorf("failed to initialize scheduler -> %w", err)
		}
		sched.Start()
		defer func() {
			if err := sched.Shutdown(); err != nil {
				zap.L().Warn("scheduler shutdown", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
	case <-ctx.Done():
		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err = srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down the server -> %w", err)
		}
	}

	return nil
}
