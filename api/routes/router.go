package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kisansetu/kisansetu-backend/api/controllers"
	"github.com/kisansetu/kisansetu-backend/api/middleware"
	authsvc "github.com/kisansetu/kisansetu-backend/internal/auth"
	chatsvc "github.com/kisansetu/kisansetu-backend/internal/chat"
	ordersvc "github.com/kisansetu/kisansetu-backend/internal/orders"
	paymentsvc "github.com/kisansetu/kisansetu-backend/internal/payments"
	productsvc "github.com/kisansetu/kisansetu-backend/internal/products"
	reviewsvc "github.com/kisansetu/kisansetu-backend/internal/reviews"
	statsvc "github.com/kisansetu/kisansetu-backend/internal/stats"
	"github.com/kisansetu/kisansetu-backend/pkg/auth/session"
	"github.com/kisansetu/kisansetu-backend/pkg/config"
	"github.com/kisansetu/kisansetu-backend/pkg/db"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	"github.com/kisansetu/kisansetu-backend/pkg/logger"
	"github.com/kisansetu/kisansetu-backend/pkg/metrics"
	"github.com/kisansetu/kisansetu-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps collects everything the HTTP surface needs. Keeping it in one struct
// saves main from threading a dozen positional arguments through NewRouter.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager sessionManager
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth     authsvc.Service
	Products productsvc.Service
	Orders   ordersvc.Service
	Payments paymentsvc.Service
	Reviews  reviewsvc.Service
	Stats    statsvc.Service
	Chat     chatsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.Logging(logg),
		middleware.CORS(cfg.Checkout.ClientURL),
	)

	authenticated := middleware.Auth(cfg.JWT, deps.SessionManager, logg)
	// An interface holding a typed nil *redis.Client would slip past the
	// middleware's nil check, so only hand it a store that actually exists.
	var idemStore redis.IdempotencyStore
	if deps.Redis != nil {
		idemStore = deps.Redis
	}
	idempotent := middleware.Idempotency(idemStore, logg)
	farmerOnly := middleware.RequireRole(string(enums.UserRoleFarmer), logg)
	consumerOnly := middleware.RequireRole(string(enums.UserRoleConsumer), logg)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.SessionManager, cfg.JWT, logg))
	})

	// The catalog is browsable without an account; mutations are farmer-only.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Products, logg))
		r.Get("/{productId}", controllers.GetProduct(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(authenticated, idempotent, farmerOnly)
			r.Get("/mine", controllers.MyProducts(deps.Products, logg))
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Put("/{productId}", controllers.UpdateProduct(deps.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(deps.Products, logg))
		})
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Get("/farmer/{farmerId}", controllers.FarmerReviews(deps.Reviews, logg))
		r.Get("/stats/{farmerId}", controllers.FarmerReviewStats(deps.Reviews, logg))
		r.With(authenticated, idempotent, consumerOnly).Post("/", controllers.CreateReview(deps.Reviews, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(idempotent)

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/orders", func(r chi.Router) {
			r.With(consumerOnly).Post("/", controllers.CreateOrder(deps.Orders, logg))
			r.With(consumerOnly).Get("/", controllers.MyOrders(deps.Orders, logg))
			r.With(farmerOnly).Get("/farmer", controllers.FarmerOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
			r.Put("/{orderId}/status", controllers.TransitionOrder(deps.Orders, logg))
		})

		r.Route("/v1/payments", func(r chi.Router) {
			r.Use(consumerOnly)
			r.Post("/checkout-session", controllers.CreateCheckoutSession(deps.Payments, logg))
			r.Post("/verify", controllers.VerifyPayment(deps.Payments, logg))
			r.Post("/cash", controllers.RecordCashPayment(deps.Payments, logg))
		})

		r.Route("/v1/stats", func(r chi.Router) {
			r.With(consumerOnly).Get("/consumer", controllers.ConsumerDashboard(deps.Stats, logg))
			r.With(farmerOnly).Get("/farmer", controllers.FarmerDashboard(deps.Stats, logg))
		})

		r.Route("/v1/chat", func(r chi.Router) {
			r.Post("/", controllers.SendMessage(deps.Chat, logg))
			r.Get("/conversations", controllers.ListConversations(deps.Chat, logg))
			r.Get("/unread/count", controllers.UnreadCount(deps.Chat, logg))
			r.Post("/read/{senderId}", controllers.MarkMessagesRead(deps.Chat, logg))
			r.Get("/{userId}", controllers.ChatThread(deps.Chat, logg))
		})
	})

	return r
}
