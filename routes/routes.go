package routes

import (
	"tiffinhub/internal/handlers"
	"tiffinhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Zone         *handlers.ZoneHandler
	Catalog      *handlers.CatalogHandler
	Purchase     *handlers.PurchaseHandler
	Subscription *handlers.SubscriptionHandler
	Assignment   *handlers.AssignmentHandler
	Vendor       *handlers.VendorHandler
}

// Setup wires all route groups under /api/v1.
func Setup(r *gin.Engine, h *Handlers, jwtSecret string) {
	v1 := r.Group("/api/v1")

	setupAuthRoutes(v1, h.Auth, jwtSecret)
	setupPublicRoutes(v1, h)
	setupCustomerRoutes(v1, h, jwtSecret)
	setupVendorRoutes(v1, h, jwtSecret)
	setupAdminRoutes(v1, h, jwtSecret)
}

func setupAuthRoutes(r *gin.RouterGroup, auth *handlers.AuthHandler, jwtSecret string) {
	group := r.Group("/auth")
	{
		group.POST("/register", auth.Register)
		group.POST("/login", auth.Login)
		group.POST("/refresh", auth.RefreshToken)
	}

	profile := r.Group("/profile")
	profile.Use(middleware.AuthRequired(jwtSecret))
	{
		profile.GET("", auth.GetProfile)
		profile.PUT("", auth.UpdateProfile)
		profile.PUT("/password", auth.ChangePassword)
	}
}

// setupPublicRoutes covers the storefront: browsing plans and checking
// serviceability need no login. The payment webhook is authenticated by
// its gateway signature, not a bearer token.
func setupPublicRoutes(r *gin.RouterGroup, h *Handlers) {
	r.GET("/availability", h.Zone.CheckAvailability)
	r.GET("/plans", h.Catalog.ListPlans)
	r.GET("/plans/:id", h.Catalog.GetPlan)
	r.GET("/vendors/:id/reviews", h.Vendor.ListReviews)

	r.POST("/webhooks/payment", h.Purchase.HandleWebhook)
}

func setupCustomerRoutes(r *gin.RouterGroup, h *Handlers, jwtSecret string) {
	purchases := r.Group("/purchases")
	purchases.Use(middleware.AuthRequired(jwtSecret))
	{
		purchases.POST("", h.Purchase.InitiatePurchase)
		purchases.POST("/verify", h.Purchase.VerifyPayment)
		purchases.POST("/promo-preview", h.Purchase.PreviewPromo)
		purchases.GET("/workflows/:id", h.Purchase.GetWorkflow)
		purchases.GET("/transactions", h.Purchase.ListMyTransactions)
	}

	subscriptions := r.Group("/subscriptions")
	subscriptions.Use(middleware.AuthRequired(jwtSecret))
	{
		subscriptions.GET("", h.Subscription.ListMySubscriptions)
		subscriptions.GET("/:id", h.Subscription.GetSubscription)
		subscriptions.POST("/:id/use-credits", h.Subscription.UseCredits)
		subscriptions.POST("/:id/skip", h.Subscription.SkipMeal)
		subscriptions.POST("/:id/switch-vendor", h.Subscription.RequestVendorSwitch)
		subscriptions.POST("/:id/cancel", h.Subscription.CancelSubscription)
	}

	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthRequired(jwtSecret))
	{
		reviews.POST("", h.Subscription.CreateReview)
	}
}

func setupVendorRoutes(r *gin.RouterGroup, h *Handlers, jwtSecret string) {
	vendor := r.Group("/vendor")
	vendor.Use(middleware.AuthRequired(jwtSecret), middleware.VendorRequired())
	{
		vendor.GET("/:id/customers", h.Vendor.ListCustomers)
		vendor.GET("/:id/analytics", h.Vendor.GetAnalytics)
	}
}

func setupAdminRoutes(r *gin.RouterGroup, h *Handlers, jwtSecret string) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		zones := admin.Group("/zones")
		{
			zones.POST("", h.Zone.CreateZone)
			zones.GET("", h.Zone.ListZones)
			zones.GET("/:id", h.Zone.GetZone)
			zones.PUT("/:id", h.Zone.UpdateZone)
			zones.DELETE("/:id", h.Zone.DeleteZone)
		}

		plans := admin.Group("/plans")
		{
			plans.POST("", h.Catalog.CreatePlan)
			plans.PUT("/:id", h.Catalog.UpdatePlan)
		}

		promotions := admin.Group("/promotions")
		{
			promotions.POST("", h.Catalog.CreatePromotion)
			promotions.GET("", h.Catalog.ListPromotions)
		}

		assignments := admin.Group("/assignments")
		{
			assignments.GET("", h.Assignment.ListQueue)
			assignments.GET("/stats", h.Assignment.QueueStats)
			assignments.GET("/:id", h.Assignment.GetRequest)
			assignments.GET("/:id/eligible-vendors", h.Assignment.EligibleVendors)
			assignments.POST("/:id/approve", h.Assignment.Approve)
			assignments.POST("/:id/reject", h.Assignment.Reject)
			assignments.POST("/:id/complete", h.Assignment.Complete)
			assignments.PUT("/:id/priority", h.Assignment.SetPriority)
		}

		vendors := admin.Group("/vendors")
		{
			vendors.POST("", h.Vendor.CreateVendor)
			vendors.GET("", h.Vendor.ListVendors)
			vendors.GET("/:id", h.Vendor.GetVendor)
			vendors.PUT("/:id", h.Vendor.UpdateVendor)
		}

		subscriptions := admin.Group("/subscriptions")
		{
			subscriptions.GET("", h.Subscription.SearchSubscriptions)
			subscriptions.GET("/stats", h.Subscription.GetStats)
			subscriptions.POST("/sweep-expired", h.Subscription.SweepExpired)
		}

		payments := admin.Group("/payments")
		{
			payments.POST("/check-status", h.Purchase.CheckPaymentStatus)
			payments.POST("/resume-incomplete", h.Purchase.ResumeIncomplete)
			payments.POST("/:id/refund", h.Purchase.RefundPurchase)
		}
	}
}
