package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/internal/account"
	"github.com/radieske/bolao-platform/internal/activity"
	"github.com/radieske/bolao-platform/internal/activity/ws"
	"github.com/radieske/bolao-platform/internal/auth"
	"github.com/radieske/bolao-platform/internal/catalog"
	"github.com/radieske/bolao-platform/internal/footballdata"
	"github.com/radieske/bolao-platform/internal/httpapi"
	"github.com/radieske/bolao-platform/internal/ledger"
	"github.com/radieske/bolao-platform/internal/shared/cache"
	"github.com/radieske/bolao-platform/internal/shared/config"
	"github.com/radieske/bolao-platform/internal/shared/db"
	"github.com/radieske/bolao-platform/internal/shared/logger"
	"github.com/radieske/bolao-platform/internal/shared/metrics"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// conecta com db Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	// conecta com cache Redis
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// publisher Kafka pro fan-out do feed de atividade
	publisher := activity.NewKafkaPublisher(cfg.KafkaBrokers, cfg.TopicActivity, log)
	defer publisher.Close()
	log.Info("kafka writer ready", zap.String("topic", cfg.TopicActivity))

	// monta as camadas
	engine := ledger.NewEngine(ledger.NewPostgresStore(pg), log, publisher)
	accounts := account.NewRepo(pg)
	board := account.NewLeaderboard(pg, redisClient, log)
	cat := catalog.NewRepo(pg)
	feed := activity.NewFeedRepo(pg)
	authMgr := auth.NewManager(cfg.JWTSecret, cfg.JWTExpireMinutes)

	var syncer *footballdata.Syncer
	if cfg.FootballAPIKey != "" {
		client := footballdata.NewClient(cfg.FootballAPIBaseURL, cfg.FootballAPIKey)
		syncer = footballdata.NewSyncer(pg, client, log)
	} else {
		log.Warn("FOOTBALL_API_KEY not set, sync endpoints disabled")
	}

	// hub WebSocket do feed, alimentado pelo pub/sub do Redis
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(ctx, redisClient, cfg.RedisFeedChannel, hub, log)

	api := &httpapi.Server{
		Log:            log,
		Auth:           authMgr,
		Accounts:       accounts,
		Board:          board,
		Catalog:        cat,
		Engine:         engine,
		Feed:           feed,
		Syncer:         syncer,
		Hub:            hub,
		DefaultBalance: cfg.DefaultBalance,
	}

	// métricas e health em porta separada
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
