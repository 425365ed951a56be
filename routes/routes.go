package routes

import (
	"swapp/handlers"
	"swapp/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers all session booking endpoints.
func RegisterSessionRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/sessions")
	{
		// Public: anyone browsing a teacher can check the calendar.
		api.GET("/availability/:teacherId", bh.GetTeacherAvailability)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthUserMiddleware())
		api.POST("", bh.CreateSession)
		api.GET("", bh.ListSessions)
		api.GET("/:id", bh.GetSession)
		api.PUT("/:id/status", bh.UpdateSessionStatus)
		api.POST("/:id/review", bh.SubmitReview)
	}
}

// RegisterWalletRoutes registers the coin wallet endpoints.
func RegisterWalletRoutes(r *gin.Engine, wh *handlers.WalletHandler) {
	api := r.Group("/api/wallet")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("", wh.GetWallet)
		api.GET("/packages", wh.ListPackages)
		api.POST("/topup", wh.CreateTopUp)
		api.POST("/topup/confirm", wh.ConfirmTopUp)
	}
}

// RegisterHealthRoutes registers the health endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/healthz", handlers.Healthz)
}
