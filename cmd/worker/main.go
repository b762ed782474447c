package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sahilmehra/karigarpay-backend/internal/bookings"
	payoutconsumer "github.com/sahilmehra/karigarpay-backend/internal/consumers/payouts"
	"github.com/sahilmehra/karigarpay-backend/internal/earnings"
	"github.com/sahilmehra/karigarpay-backend/internal/payouts"
	"github.com/sahilmehra/karigarpay-backend/pkg/config"
	"github.com/sahilmehra/karigarpay-backend/pkg/db"
	"github.com/sahilmehra/karigarpay-backend/pkg/logger"
	"github.com/sahilmehra/karigarpay-backend/pkg/metrics"
	"github.com/sahilmehra/karigarpay-backend/pkg/outbox"
	"github.com/sahilmehra/karigarpay-backend/pkg/outbox/idempotency"
	"github.com/sahilmehra/karigarpay-backend/pkg/pubsub"
	"github.com/sahilmehra/karigarpay-backend/pkg/razorpay"
	"github.com/sahilmehra/karigarpay-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "worker"

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "failed to close database client", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "failed to close redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	subscription := pubsubClient.PayoutsSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "payouts subscription", errors.New("subscription not configured"))
	}

	manager, err := idempotency.NewManager(redisClient, cfg.Eventing.OutboxIdempotencyTTL)
	requireResource(ctx, logg, "idempotency manager", err)

	earningsSvc, err := earnings.NewService(earnings.NewRepository(dbClient.DB()), redisClient, cfg.Payout.SnapshotCacheTTL, logg)
	requireResource(ctx, logg, "earnings service", err)

	payoutsSvc, err := payouts.NewService(
		payouts.NewRepository(dbClient.DB()),
		bookings.NewRepository(dbClient.DB()),
		earningsSvc,
		dbClient,
		outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		razorpay.New(cfg.Razorpay),
		cfg.Razorpay,
		cfg.Payout,
		metrics.NewPayoutMetrics(prometheus.DefaultRegisterer),
		logg,
	)
	requireResource(ctx, logg, "payouts service", err)

	consumer, err := payoutconsumer.NewConsumer(payoutsSvc, manager, logg)
	requireResource(ctx, logg, "payouts consumer", err)

	service, err := NewService(subscription, consumer, logg)
	requireResource(ctx, logg, "payouts worker service", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(runCtx, "payouts worker ready")

	if err := service.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "payouts worker failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
