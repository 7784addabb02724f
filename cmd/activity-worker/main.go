package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/internal/activity"
	"github.com/radieske/bolao-platform/internal/shared/cache"
	"github.com/radieske/bolao-platform/internal/shared/config"
	"github.com/radieske/bolao-platform/internal/shared/db"
	"github.com/radieske/bolao-platform/internal/shared/kafka"
	"github.com/radieske/bolao-platform/internal/shared/logger"
	"github.com/radieske/bolao-platform/internal/shared/metrics"
)

var (
	consumedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bolao_activity_consumed_total",
		Help: "Registros de atividade consumidos do Kafka",
	})
	notifiedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bolao_activity_notifications_total",
		Help: "Notificações individuais derivadas",
	})
	broadcastTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bolao_activity_broadcast_total",
		Help: "Registros retransmitidos pro canal do feed",
	})
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bolao_activity_errors_total",
		Help: "Erros do worker, por fase",
	}, []string{"phase"})
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicActivity, "activity-worker")
	defer reader.Close()

	dlq := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicActivityDLQ)
	defer dlq.Close()

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	defer metricsSrv.Close()

	proc := &activity.Processor{
		Log:     log,
		Reader:  reader,
		DLQ:     dlq,
		Feed:    activity.NewFeedRepo(pg),
		Redis:   redisClient,
		Channel: cfg.RedisFeedChannel,

		OnConsumed:  func() { consumedTotal.Inc() },
		OnNotified:  func() { notifiedTotal.Inc() },
		OnBroadcast: func() { broadcastTotal.Inc() },
		OnError:     func(phase string) { errorsTotal.WithLabelValues(phase).Inc() },
	}

	log.Info("activity-worker started",
		zap.String("consume", cfg.TopicActivity),
		zap.String("broadcast", cfg.RedisFeedChannel),
	)

	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped", zap.Error(err))
	}
	log.Info("shutdown complete")
}
