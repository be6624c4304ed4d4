package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-ledger/internal/api/handlers"
	"auction-ledger/internal/config"
	"auction-ledger/internal/domain"
	"auction-ledger/internal/infrastructure/mysql"
	natsEvents "auction-ledger/internal/infrastructure/nats"
	"auction-ledger/internal/infrastructure/redis"
	"auction-ledger/internal/services"
	"auction-ledger/pkg/logger"
	"auction-ledger/pkg/utils"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nats-io/nats.go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.Log.Level)
	log.Info("Starting analytics service", "config", cfg.GetConfigString())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	subscriber, closeEvents, err := newEventSubscriber(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize event subscriber", "driver", cfg.Events.Driver, "error", err)
		os.Exit(1)
	}
	defer closeEvents()

	db, err := utils.InitializeMysql(ctx, cfg.MySQL.DSN,
		cfg.MySQL.MaxOpenConns, cfg.MySQL.MaxIdleConns, cfg.MySQL.ConnMaxLifetime)
	if err != nil {
		log.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}()
	log.Info("Connected to MySQL")

	bidRepo := mysql.NewMySQLBidRepository(db)
	archiver := services.NewBidArchiver(subscriber, bidRepo, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	handlers.NewHistoryHandler(bidRepo, log).Register(e.Group("/api/v1"))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "analytics"})
	})

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Info("Starting HTTP server", "address", serverAddr)
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
		}
	}()

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- archiver.Start(runCtx)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Shutting down analytics service...")
		stop()
		<-done
	case err := <-done:
		if err != nil && runCtx.Err() == nil {
			log.Error("Analytics service failed", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Analytics service stopped")
}

func newEventSubscriber(ctx context.Context, cfg *config.Config, log logger.Logger) (domain.EventSubscriber, func(), error) {
	switch cfg.Events.Driver {
	case config.EventsDriverRedis:
		rdb := redisClient.NewClient(&redisClient.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("Connected to Redis", "address", cfg.Redis.Address)
		return redis.NewRedisEventSubscriber(rdb, cfg.Events.Channel, log), func() { rdb.Close() }, nil

	case config.EventsDriverNATS:
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name(cfg.Instance.ID+"-analytics"))
		if err != nil {
			return nil, nil, fmt.Errorf("connect to nats: %w", err)
		}
		log.Info("Connected to NATS", "url", cfg.NATS.URL)
		return natsEvents.NewEventSubscriber(nc, cfg.Events.Channel, log), func() { nc.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("analytics needs an events driver, got %q", cfg.Events.Driver)
	}
}
