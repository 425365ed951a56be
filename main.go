// File: swapp/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swapp/config"
	"swapp/cron"
	"swapp/database"
	bookingRepoPkg "swapp/database/repository/booking"
	ledgerRepoPkg "swapp/database/repository/ledger"
	userRepoPkg "swapp/database/repository/user"
	"swapp/handlers"
	"swapp/middleware"
	"swapp/routes"
	"swapp/services/booking"
	"swapp/services/notification"
	"swapp/services/tasks"
	"swapp/services/wallet"
	"swapp/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	ledgerRepo := ledgerRepoPkg.NewMongoCoinTransactionRepo()
	txRunner := database.NewMongoTxRunner(database.MongoClient)

	// services.
	notificationService := notification.NewDefaultNotificationService(userRepo)
	reminderScheduler := tasks.NewAsynqReminderScheduler()

	bookingService := &booking.DefaultBookingService{
		UserRepo:    userRepo,
		BookingRepo: bookingRepo,
		LedgerRepo:  ledgerRepo,
		Tx:          txRunner,
		Locks:       booking.NewRedisLocker(utils.GetLockClient()),
		Reminders:   reminderScheduler,
		Notifier:    notificationService,
	}

	walletService := &wallet.DefaultWalletService{
		UserRepo:   userRepo,
		LedgerRepo: ledgerRepo,
		Tx:         txRunner,
		Payments:   wallet.StripeProvider{},
	}

	// handlers.
	bookingHandler := handlers.NewBookingHandler(bookingService, utils.GetCacheClient(), logger)
	walletHandler := handlers.NewWalletHandler(walletService, logger)

	routes.RegisterSessionRoutes(router, bookingHandler)
	routes.RegisterWalletRoutes(router, walletHandler)
	routes.RegisterHealthRoutes(router)

	// Background reminder worker and health monitor.
	cron.InitReminderWorker(notificationService)
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetLockClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
