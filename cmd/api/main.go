package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kisansetu/kisansetu-backend/api/routes"
	"github.com/kisansetu/kisansetu-backend/internal/auth"
	"github.com/kisansetu/kisansetu-backend/internal/chat"
	"github.com/kisansetu/kisansetu-backend/internal/orders"
	"github.com/kisansetu/kisansetu-backend/internal/payments"
	"github.com/kisansetu/kisansetu-backend/internal/products"
	"github.com/kisansetu/kisansetu-backend/internal/reviews"
	"github.com/kisansetu/kisansetu-backend/internal/stats"
	"github.com/kisansetu/kisansetu-backend/internal/users"
	"github.com/kisansetu/kisansetu-backend/pkg/auth/session"
	"github.com/kisansetu/kisansetu-backend/pkg/config"
	"github.com/kisansetu/kisansetu-backend/pkg/db"
	"github.com/kisansetu/kisansetu-backend/pkg/logger"
	"github.com/kisansetu/kisansetu-backend/pkg/metrics"
	"github.com/kisansetu/kisansetu-backend/pkg/migrate"
	"github.com/kisansetu/kisansetu-backend/pkg/realtime"
	"github.com/kisansetu/kisansetu-backend/pkg/redis"
	"github.com/kisansetu/kisansetu-backend/pkg/stripe"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
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

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to initialize stripe", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	orderMetrics := metrics.NewOrderMetrics(registry)

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)
	paymentRepo := payments.NewRepository(gormDB)
	reviewRepo := reviews.NewRepository(gormDB)
	statsRepo := stats.NewRepository(gormDB)
	chatRepo := chat.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{
		Repo:    productRepo,
		Ratings: reviewRepo,
		Names:   userRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:      orderRepo,
		Products:  productRepo,
		Inventory: products.NewInventoryReserver(),
		Tx:        dbClient,
		Metrics:   orderMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:        paymentRepo,
		Orders:      orderRepo,
		Provider:    payments.NewStripeProvider(cfg.Checkout, stripeClient.Key()),
		Tx:          dbClient,
		CheckoutCfg: cfg.Checkout,
		Metrics:     orderMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		Repo:   reviewRepo,
		Orders: orderRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(stats.ServiceParams{
		Repo:     statsRepo,
		Orders:   orderRepo,
		Products: productRepo,
		Reviews:  reviewRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chat.ServiceParams{
		Repo:   chatRepo,
		Users:  userRepo,
		Names:  userRepo,
		Tx:     dbClient,
		Events: realtime.NewPublisher(redisClient, cfg.Chat.ChannelPrefix, logg),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionManager: sessionManager,
			HTTPMetrics:    httpMetrics,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			Auth:           authService,
			Products:       productService,
			Orders:         orderService,
			Payments:       paymentService,
			Reviews:        reviewService,
			Stats:          statsService,
			Chat:           chatService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
