package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"

	"github.com/steelops/intake-api/internal/common"
	"github.com/steelops/intake-api/internal/config"
	"github.com/steelops/intake-api/internal/obs"
	"github.com/steelops/intake-api/internal/receipt"
	"github.com/steelops/intake-api/internal/report"
)

// TaskWarmDailyReport rebuilds and caches the previous day's report so the
// first morning request is served from cache.
const TaskWarmDailyReport = "report:warm_daily"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	if !cfg.RedisEnabled() {
		logger.Fatal().Msg("worker requires REDIS_URL to be set")
	}

	connOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	reportSvc := &report.Service{
		Receipts: receipt.NewStore(pool),
		Cache:    &report.Cache{R: redisClient, TTL: cfg.ReportCacheTTL},
	}

	scheduler := asynq.NewScheduler(connOpt, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("10 0 * * *", asynq.NewTask(TaskWarmDailyReport, nil)); err != nil {
		logger.Fatal().Err(err).Msg("register warm task")
	}
	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("start scheduler")
	}
	defer scheduler.Shutdown()

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWarmDailyReport, func(ctx context.Context, _ *asynq.Task) error {
		day := time.Now().AddDate(0, 0, -1)
		rep, err := reportSvc.BuildDaily(ctx, day)
		if err != nil {
			logger.Error().Err(err).Str("day", common.FormatDay(day)).Msg("warm daily report")
			return err
		}
		logger.Info().Str("day", rep.Date).Int("receipts", rep.Count).Msg("daily report warmed")
		return nil
	})

	srv := asynq.NewServer(connOpt, asynq.Config{Concurrency: 2})
	logger.Info().Msg("worker starting")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker exited unexpectedly")
	}
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
