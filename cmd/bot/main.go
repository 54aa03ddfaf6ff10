// cmd/bot/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sunvm/unik-registration-tg/internal/common/config"
	"github.com/sunvm/unik-registration-tg/internal/common/database"
	"github.com/sunvm/unik-registration-tg/internal/common/logger"
	"github.com/sunvm/unik-registration-tg/internal/conversation"
	"github.com/sunvm/unik-registration-tg/internal/dispatch"
	"github.com/sunvm/unik-registration-tg/internal/outcome"
	"github.com/sunvm/unik-registration-tg/internal/policy"
	"github.com/sunvm/unik-registration-tg/internal/rcon"
	"github.com/sunvm/unik-registration-tg/internal/review"
	"github.com/sunvm/unik-registration-tg/internal/store"
	"github.com/sunvm/unik-registration-tg/internal/telegram"
	"github.com/sunvm/unik-registration-tg/pkg/roster"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting registration bot...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Load Reviewer Roster ---
	reviewers, err := roster.Load(cfg.Review.RosterPath)
	if err != nil {
		zapLog.Fatal("reviewer roster load failed", zap.Error(err))
	}
	zapLog.Info("Reviewer roster loaded", zap.Int("reviewers", len(reviewers.All())))

	// --- Init Telegram Bot with retry ---
	var bot *telegram.Bot
	err = retryWithBackoff(func() error {
		var err error
		bot, err = telegram.NewBot(cfg.Telegram, log)
		return err
	}, 10, 2*time.Second, zapLog, "Telegram bot initialization")

	if err != nil {
		zapLog.Fatal("telegram bot failed after retries", zap.Error(err))
	}

	// --- Wire Components ---
	records := store.NewPostgresRecords(pg.DB, log)
	sessions := store.NewRedisSessions(rdb.Client, time.Duration(cfg.Review.SessionTTL)*time.Second, log)
	eligibility := policy.New(reviewers.IDs(), cfg.Review.CooldownDays)
	grant := rcon.NewGrant(cfg.RCON, log)
	executor := outcome.NewExecutor(grant, bot, cfg.RCON.WhitelistCommand, cfg.Review.CooldownDays, log)
	coordinator := review.NewCoordinator(records, review.NewTicketRegistry(), reviewers, executor, bot, log)
	machine := conversation.NewMachine(sessions, records, eligibility, coordinator, bot, log)
	dispatcher := dispatch.NewDispatcher(machine, coordinator, reviewers, log)

	// --- Health & Metrics Server ---
	if cfg.Metrics.Enabled {
		go func() {
			http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "healthy",
					"time":   time.Now().Format(time.RFC3339),
				})
			})
			http.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		zapLog.Info("Shutdown signal received, stopping...", zap.String("signal", sig.String()))
		cancel()
	}()

	// --- Poll Updates ---
	backoff := time.Duration(cfg.Telegram.RetryBackoff) * time.Second
	for {
		dispatcher.Run(ctx, bot.Events(ctx))
		if ctx.Err() != nil {
			break
		}
		zapLog.Warn("Update stream ended, restarting", zap.Duration("backoff", backoff))
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
		}
	}

	zapLog.Info("Registration bot stopped gracefully")
}
