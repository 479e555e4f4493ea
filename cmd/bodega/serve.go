package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/bodega/internal/cache"
	bodegacfg "github.com/Skotchmaster/bodega/internal/config"
	"github.com/Skotchmaster/bodega/internal/guard"
	"github.com/Skotchmaster/bodega/internal/httpserver"
	"github.com/Skotchmaster/bodega/internal/mykafka"
	"github.com/Skotchmaster/bodega/internal/repo"
	"github.com/Skotchmaster/bodega/internal/search"
	"github.com/Skotchmaster/bodega/internal/service"
	pkgdb "github.com/Skotchmaster/bodega/pkg/db"
	"github.com/Skotchmaster/bodega/pkg/logging"
	loggingmw "github.com/Skotchmaster/bodega/pkg/middleware/logging"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := bodegacfg.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}
	defer sqlDB.Close()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if err := repo.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	r := &repo.GormRepo{DB: db}

	g, err := guard.New(cfg.AdminPassword, cfg.AdminSessionSecret, r)
	if err != nil {
		return err
	}

	var publisher mykafka.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := mykafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
		publisher = producer
	} else {
		logger.Info("kafka_disabled", "reason", "KAFKA_BROKERS not set")
	}

	catalogSvc := &service.CatalogService{Lister: r, Fallback: r}
	productSvc := &service.ProductAdminService{Repo: r, Events: publisher}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis_unreachable", "error", err)
		}
		cancel()

		cached := cache.NewCatalog(r, rdb, cfg.CatalogCacheTTL)
		catalogSvc.Lister = cached
		productSvc.Cache = cached
	}

	if cfg.ESURL != "" {
		es, err := search.NewClient(search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			idx := &search.Index{ES: es, Name: cfg.ESIndex}
			catalogSvc.Index = idx
			productSvc.Index = idx
		}
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: true,
			AllowHeaders:     []string{echo.HeaderContentType, "X-CSRF-Token"},
			ExposeHeaders:    []string{"X-CSRF-Token"},
		}))
	} else {
		e.Use(echomw.CORS())
	}

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc, Store: cfg.Store, DeliveryFee: cfg.DeliveryFee},
		CheckoutHandler: &httpserver.CheckoutHTTP{Svc: &service.CheckoutService{
			Products:    r,
			Events:      publisher,
			Store:       cfg.Store,
			DeliveryFee: cfg.DeliveryFee,
		}},
		SessionHandler:  &httpserver.SessionHTTP{Guard: g, CookieSecure: cfg.CookieSecure},
		ProductsHandler: &httpserver.AdminProductsHTTP{Svc: productSvc},
		OrdersHandler: &httpserver.AdminOrdersHTTP{Svc: &service.OrderAdminService{
			Repo:        r,
			Products:    r,
			Events:      publisher,
			DeliveryFee: cfg.DeliveryFee,
			CountryCode: cfg.ContactCountryCode,
		}},
		Guard:        g,
		CookieSecure: cfg.CookieSecure,
		Ready:        r.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}

	logger.Info("server_stopped")
	return nil
}
