package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lmorales/shopworks-backend/api/routes"
	"github.com/lmorales/shopworks-backend/internal/auth"
	"github.com/lmorales/shopworks-backend/internal/cart"
	"github.com/lmorales/shopworks-backend/internal/catalog"
	"github.com/lmorales/shopworks-backend/internal/checkout"
	"github.com/lmorales/shopworks-backend/internal/dashboard"
	"github.com/lmorales/shopworks-backend/internal/orders"
	"github.com/lmorales/shopworks-backend/internal/settings"
	"github.com/lmorales/shopworks-backend/internal/users"
	"github.com/lmorales/shopworks-backend/pkg/auth/session"
	"github.com/lmorales/shopworks-backend/pkg/config"
	"github.com/lmorales/shopworks-backend/pkg/db"
	"github.com/lmorales/shopworks-backend/pkg/logger"
	"github.com/lmorales/shopworks-backend/pkg/metrics"
	"github.com/lmorales/shopworks-backend/pkg/migrate"
	"github.com/lmorales/shopworks-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())

	resolver, err := catalog.NewResolver(catalogRepo)
	requireService(logg, "variant resolver", err)

	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	requireService(logg, "catalog service", err)

	cartService, err := cart.NewService(cartRepo, dbClient, resolver, logg)
	requireService(logg, "cart service", err)

	checkoutStore, err := checkout.NewStore(dbClient, cartRepo, catalogRepo, ordersRepo)
	requireService(logg, "checkout store", err)

	checkoutService, err := checkout.NewService(checkoutStore, resolver, cfg.Checkout, logg)
	requireService(logg, "checkout service", err)

	ordersService, err := orders.NewService(ordersRepo)
	requireService(logg, "orders service", err)

	usersService, err := users.NewService(usersRepo, cfg.Password)
	requireService(logg, "users service", err)

	authService, err := auth.NewService(usersRepo, sessionManager, cfg.App, cfg.JWT, cfg.Password, logg)
	requireService(logg, "auth service", err)

	dashboardService, err := dashboard.NewService(dashboard.NewRepository(dbClient.DB()), cfg.Dashboard)
	requireService(logg, "dashboard service", err)

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	requireService(logg, "settings service", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		DB:           dbClient,
		Redis:        redisClient,
		Sessions:     sessionManager,
		Registry:     registry,
		HTTPMetrics:  httpMetrics,
		AuthService:  authService,
		UsersService: usersService,
		Catalog:      catalogService,
		Cart:         cartService,
		Checkout:     checkoutService,
		Orders:       ordersService,
		Dashboard:    dashboardService,
		Settings:     settingsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name, err)
	os.Exit(1)
}
