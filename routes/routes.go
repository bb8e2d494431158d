package routes

import (
	"campus-grub-api/handlers"
	"campus-grub-api/middleware"
	"campus-grub-api/models"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything SetupRoutes needs to wire.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Orders     *handlers.OrderHandler
	Restaurant *handlers.RestaurantHandler
	Admin      *handlers.AdminHandler
	Public     *handlers.PublicHandler
	JWTSecret  []byte
}

func SetupRoutes(r *gin.Engine, h Handlers) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", h.Auth.Register)
		public.POST("/auth/login", h.Auth.Login)

		public.GET("/restaurants", h.Public.ListRestaurants)
		public.GET("/restaurants/:id", h.Public.GetRestaurant)
		public.GET("/restaurants/:id/menu", h.Public.GetMenu)

		public.GET("/state-machine", h.Public.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(h.JWTSecret))
	{
		auth.GET("/profile", h.Auth.GetProfile)

		// Shared order surface: detail and the single transition endpoint.
		// The state machine arbitrates who may do what per order.
		auth.GET("/orders/:id", h.Orders.GetOrderDetail)
		auth.PATCH("/orders/:id/status", h.Orders.UpdateStatus)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(h.JWTSecret), middleware.RoleRequired(models.RoleUser))
	{
		customer.POST("/orders", h.Orders.PlaceOrder)
		customer.GET("/orders", h.Orders.GetMyOrders)
		customer.PUT("/orders/:id/cancel", h.Orders.CancelOrder)
	}

	// ── Restaurant owner routes ────────────────────────────────────
	restaurant := r.Group("/api/restaurant")
	restaurant.Use(middleware.AuthRequired(h.JWTSecret), middleware.RoleRequired(models.RoleRestaurantOwner))
	{
		restaurant.POST("/", h.Restaurant.CreateRestaurant)
		restaurant.GET("/", h.Restaurant.GetMyRestaurant)
		restaurant.PUT("/", h.Restaurant.UpdateRestaurant)

		restaurant.POST("/menu", h.Restaurant.AddMenuItem)
		restaurant.PUT("/menu/:itemId", h.Restaurant.UpdateMenuItem)
		restaurant.DELETE("/menu/:itemId", h.Restaurant.DeleteMenuItem)

		restaurant.GET("/orders", h.Restaurant.GetRestaurantOrders)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(h.JWTSecret), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", h.Admin.ListOrders)
		admin.GET("/stats", h.Admin.Stats)
		admin.GET("/users", h.Admin.ListUsers)
		admin.GET("/restaurants", h.Admin.ListRestaurants)
		admin.PUT("/restaurants/:id/status", h.Admin.SetRestaurantStatus)
	}
}
