// Package routes wires repositories, services and handlers into the
// fiber app.
package routes

import (
	"dinedate/internal/config"
	"dinedate/internal/handlers"
	"dinedate/internal/middleware"
	"dinedate/internal/repositories"
	"dinedate/internal/repositories/cache"
	"dinedate/internal/services/notification"
	"dinedate/internal/services/order"
	"dinedate/internal/services/pricing"
	"dinedate/internal/services/referral"
	"dinedate/internal/services/review"
	"dinedate/internal/services/settlement"
	"dinedate/internal/services/topup"
	"dinedate/internal/services/user"
	"dinedate/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes builds the dependency graph and registers all routes.
// cacheService may be nil when redis is not configured.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheService *cache.Service) {
	walletRepo := repositories.NewWalletRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	userRepo := repositories.NewUserRepository(db)

	var walletCache wallet.Cache = wallet.NoopCache{}
	if cacheService != nil {
		walletCache = cacheService
	}

	notifier := newNotifier()
	ledger := wallet.NewService(walletRepo, walletCache)
	resolver := pricing.NewResolver(pricing.DefaultCommission)
	orderService := order.NewService(orderRepo, userRepo, ledger, resolver, notifier)
	reviewService := review.NewService(reviewRepo, orderRepo, notifier)
	referralService := referral.NewService(userRepo, orderRepo, ledger, notifier)
	settlementService := settlement.NewService(orderRepo, ledger, referralService, notifier)
	topupService := topup.NewService(ledger, config.GetEnv("STRIPE_SECRET_KEY", ""))
	userService := user.NewService(userRepo, ledger, reviewService)

	authHandler := handlers.NewAuthHandler(userService)
	orderHandler := handlers.NewOrderHandler(orderService)
	walletHandler := handlers.NewWalletHandler(ledger, topupService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	settlementHandler := handlers.NewSettlementHandler(settlementService)

	api := app.Group("/api")
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	authed := api.Use(middleware.Auth())
	authed.Get("/users/:id/profile", authHandler.Profile)

	authed.Post("/orders", orderHandler.Create)
	authed.Get("/orders/:id", orderHandler.Get)
	authed.Post("/orders/:id/applications", orderHandler.Apply)
	authed.Get("/orders/:id/applications", orderHandler.ListApplications)
	authed.Post("/orders/:id/accept", orderHandler.Accept)
	authed.Post("/orders/:id/cancel", orderHandler.Cancel)
	authed.Post("/orders/:id/reviews", reviewHandler.Submit)

	authed.Get("/wallet", walletHandler.Get)
	authed.Get("/wallet/transactions", walletHandler.Transactions)
	authed.Post("/wallet/topup", walletHandler.TopUp)

	internal := app.Group("/internal", middleware.Auth(), middleware.AdminOnly)
	internal.Post("/settlement/run", settlementHandler.Run)
}

func newNotifier() notification.Dispatcher {
	if url := config.GetEnv("RABBITMQ_URL", ""); url != "" {
		return notification.NewAMQPDispatcher(url)
	}
	return notification.NewLogDispatcher()
}
