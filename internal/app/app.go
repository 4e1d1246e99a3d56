// Package app wires config sections into the components shared by the
// dashboard and reporter binaries.
package app

import (
	"context"
	"fmt"
	"time"

	"GoldDashboard/internal/config"
	"GoldDashboard/internal/loader"
	"GoldDashboard/internal/recorder"
	"GoldDashboard/internal/report"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewSource builds the price file loader described by cfg.Data.
func NewSource(cfg *config.Config, logger *zap.Logger) (*loader.FileLoader, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("data timezone: %w", err)
	}
	src := loader.NewFileLoader(cfg.Data.Path, logger)
	src.Location = loc
	src.SkipMalformed = cfg.Data.SkipMalformed
	return src, nil
}

// NewReportStore builds the report artifact store. The returned close func
// releases any client the store holds and is never nil.
func NewReportStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (report.Store, func(), error) {
	if cfg.Report.Store != "redis" {
		return report.NewFileStore(cfg.Report.Path), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, func() {}, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info("report store on redis", zap.String("addr", cfg.Redis.Addr), zap.String("key", cfg.Report.RedisKey))
	return report.NewRedisStore(rdb, cfg.Report.RedisKey), func() { rdb.Close() }, nil
}

// NewRecorder opens the SQLite run log when configured. Failures degrade to
// the noop recorder.
func NewRecorder(cfg *config.Config, logger *zap.Logger) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
	if err != nil {
		logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		return recorder.NewNoopRecorder()
	}
	return rec
}
