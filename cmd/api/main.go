package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/evans-droid/voice-recognition-shop-management-system/internal/auth"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/config"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard"
	dashboardCache "github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard/cache"
	dashboardStore "github.com/evans-droid/voice-recognition-shop-management-system/internal/dashboard/store"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/database"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/events"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/events/kafka"
	posHttp "github.com/evans-droid/voice-recognition-shop-management-system/internal/http"
	authHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/auth"
	dashboardHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/dashboard"
	productHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/product"
	saleHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/sale"
	voiceHandler "github.com/evans-droid/voice-recognition-shop-management-system/internal/http/voice"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/product"
	productStore "github.com/evans-droid/voice-recognition-shop-management-system/internal/product/store"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/receipt"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/sale"
	saleStore "github.com/evans-droid/voice-recognition-shop-management-system/internal/sale/store"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/user"
	userStore "github.com/evans-droid/voice-recognition-shop-management-system/internal/user/store"
	"github.com/evans-droid/voice-recognition-shop-management-system/internal/voice"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(cfg.Logger())

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	var publisher events.Publisher = events.Nop{}

	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafka.NewPublisher(cfg.Kafka.Brokers)
		defer kp.Close()

		publisher = kp

		slog.Info("publishing sale events", "brokers", cfg.Kafka.Brokers)
	}

	var cache dashboard.Cache = dashboard.NopCache{}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, dashboard cache will miss", "addr", cfg.Redis.Addr, "error", err)
		}

		cache = dashboardCache.NewRedis(client, cfg.Redis.TTL)
	}

	var (
		userService      = user.NewService(userStore.New(db))
		productService   = product.NewService(productStore.New(db))
		dashboardService = dashboard.NewService(dashboardStore.New(db),
			dashboard.WithLocation(loc),
			dashboard.WithCache(cache),
		)
		saleService = sale.NewService(saleStore.New(db),
			sale.WithLocation(loc),
			sale.WithPublisher(publisher),
			sale.WithCacheInvalidator(dashboardService),
		)
		resolver = voice.NewResolver(productService)
		issuer   = auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	)

	router := posHttp.New(posHttp.Handlers{
		Auth:      authHandler.NewHandler(userService, issuer),
		Products:  productHandler.NewHandler(productService),
		Sales:     saleHandler.NewHandler(saleService, userService, receipt.Options{Currency: cfg.App.Currency, Location: loc}, cfg.App.TaxRate),
		Dashboard: dashboardHandler.NewHandler(dashboardService),
		Voice:     voiceHandler.NewHandler(resolver),
	}, posHttp.Options{
		Issuer:         issuer,
		DB:             db,
		Timeout:        cfg.Server.Timeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "port", srv.Addr, "timezone", loc.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
	}

	return nil
}
