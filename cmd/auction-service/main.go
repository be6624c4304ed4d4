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
	"auction-ledger/internal/infrastructure/memory"
	natsEvents "auction-ledger/internal/infrastructure/nats"
	"auction-ledger/internal/infrastructure/redis"
	"auction-ledger/internal/infrastructure/websocket"
	"auction-ledger/internal/services"
	"auction-ledger/pkg/logger"

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
	log.Info("Starting auction ledger service", "config", cfg.GetConfigString())

	eventPub, closeEvents, err := newEventPublisher(cfg, log)
	if err != nil {
		log.Error("Failed to initialize event publisher", "driver", cfg.Events.Driver, "error", err)
		os.Exit(1)
	}
	defer closeEvents()

	// Ledger core
	auctionService := services.NewAuctionService(memory.NewCatalog(), eventPub, log)

	// Realtime bidding
	connManager := websocket.NewConnectionManager(log)
	notifier := websocket.NewWebSocketNotifier(connManager)
	auctionService.SetBroadcaster(notifier)
	auctionService.SetNotifier(notifier)
	wsHandler := websocket.NewWebSocketHandler(auctionService, connManager, log)

	reporter := services.NewCronCatalogReporter(auctionService, cfg.Reporter.Schedule, log)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","method":"${method}","uri":"${uri}","status":${status},"error":"${error}","latency_human":"${latency_human}"}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
		},
		MaxAge: 86400,
	}))

	api := e.Group("/api/v1")
	handlers.NewAuctionHandler(auctionService, log).Register(api)

	e.GET("/ws/items/:name", echo.WrapHandler(wsHandler.Router()))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "auction-ledger",
			"instance":  cfg.Instance.ID,
			"events":    cfg.Events.Driver,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := reporter.Start(ctx); err != nil {
		log.Error("Failed to start catalog reporter", "error", err)
		os.Exit(1)
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Info("Starting HTTP server", "address", serverAddr)
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down auction ledger service...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := reporter.Stop(); err != nil {
		log.Error("Failed to stop reporter", "error", err)
	}
	if err := connManager.CloseAll(); err != nil {
		log.Error("Failed to close websocket connections", "error", err)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Auction ledger service stopped")
}

// newEventPublisher returns a nil publisher when events are disabled.
func newEventPublisher(cfg *config.Config, log logger.Logger) (domain.EventPublisher, func(), error) {
	switch cfg.Events.Driver {
	case config.EventsDriverRedis:
		rdb := redisClient.NewClient(&redisClient.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("Connected to Redis", "address", cfg.Redis.Address)

		return redis.NewEventPublisher(rdb, cfg.Events.Channel), func() { rdb.Close() }, nil

	case config.EventsDriverNATS:
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name(cfg.Instance.ID))
		if err != nil {
			return nil, nil, fmt.Errorf("connect to nats: %w", err)
		}
		log.Info("Connected to NATS", "url", cfg.NATS.URL)

		return natsEvents.NewEventPublisher(nc, cfg.Events.Channel), func() { nc.Drain() }, nil

	default:
		log.Info("Bid events disabled")
		return nil, func() {}, nil
	}
}
