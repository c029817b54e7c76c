package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/skagen/norna/internal"
	"github.com/skagen/norna/internal/handler/admin"
	"github.com/skagen/norna/internal/handler/public"
	"github.com/skagen/norna/internal/middleware"
	"github.com/skagen/norna/internal/notify"
	"github.com/skagen/norna/internal/postgres"
	"github.com/skagen/norna/internal/router"
	"github.com/skagen/norna/internal/routes"
	"github.com/skagen/norna/internal/service"
	"github.com/skagen/norna/internal/telemetry"
	"github.com/skagen/norna/internal/tenant"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Register business metrics
	telemetry.InitBusinessMetrics("norna")

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	storeRegistry := postgres.NewStoreRegistry(pool)
	catalogStore := postgres.NewCatalogStore(pool)
	customerStore := postgres.NewCustomerStore(pool)
	orderStore := postgres.NewOrderStore(pool)
	operatorStore := postgres.NewOperatorStore(pool)

	// Initialize notification channels. Both are optional; with neither
	// configured the dispatcher is a no-op and orders still place fine.
	var notifiers []notify.Notifier
	if cfg.Nats.URL != "" {
		publisher, err := notify.NewEventPublisher(cfg.Nats.URL, cfg.Nats.SubjectPrefix)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
		logger.Info("Order event publishing enabled", "url", cfg.Nats.URL)
	}
	if cfg.Email.Host != "" {
		notifiers = append(notifiers, notify.NewEmailSender(notify.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     int(cfg.Email.Port),
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			FromName: cfg.Email.FromName,
		}))
		logger.Info("Order confirmation email enabled", "host", cfg.Email.Host)
	}
	dispatcher := notify.NewDispatcher(logger, notifiers...)

	// Initialize services
	storeService := service.NewStoreService(storeRegistry)
	catalogService := service.NewCatalogService(catalogStore)
	cartService := service.NewCartService(catalogStore)
	checkoutService := service.NewCheckoutService(storeRegistry, catalogStore, orderStore, dispatcher, logger)
	orderService := service.NewOrderService(orderStore, logger)
	customerService := service.NewCustomerService(customerStore)
	operatorService := service.NewOperatorService(operatorStore, logger)

	// Storefront resolution shared by both surfaces
	storefrontCfg := middleware.StorefrontConfig{
		BaseDomain: cfg.BaseDomain,
		Resolver:   tenant.NewRegistryResolver(storeRegistry),
		Logger:     logger,
	}

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("norna")

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	globalMiddleware := []router.Middleware{
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	}
	if len(cfg.AllowedOrigins) > 0 {
		globalMiddleware = append(globalMiddleware, router.CORS(cfg.AllowedOrigins))
	}
	r := router.New(globalMiddleware...)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.Ping(req.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterPublicRoutes(r, routes.PublicDeps{
		Storefront:      storefrontCfg,
		StoreHandler:    public.NewStoreHandler(storeService, logger),
		CatalogHandler:  public.NewCatalogHandler(catalogService, logger),
		CartHandler:     public.NewCartHandler(cartService, logger),
		CheckoutHandler: public.NewCheckoutHandler(checkoutService, logger),
		TrackingHandler: public.NewTrackingHandler(orderService, logger),
		CustomerHandler: public.NewCustomerHandler(customerService, logger),
	})

	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		Storefront:      storefrontCfg,
		Operators:       operatorService,
		AuthHandler:     admin.NewAuthHandler(operatorService, cfg.Env == "prod", logger),
		OrderHandler:    admin.NewOrderHandler(orderService, logger),
		CustomerHandler: admin.NewCustomerHandler(customerService, logger),
		ProductHandler:  admin.NewProductHandler(catalogService, logger),
		SettingsHandler: admin.NewSettingsHandler(storeService, logger),
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "base_domain", cfg.BaseDomain)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
