package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-grub-api/config"
	"campus-grub-api/handlers"
	"campus-grub-api/middleware"
	"campus-grub-api/repository"
	"campus-grub-api/routes"
	"campus-grub-api/seed"
	"campus-grub-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	seedFlag := flag.Bool("seed", false, "reset and seed sample data, then exit")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := config.OpenDB(cfg.DBPath, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer config.CloseDB(db)

	if *seedFlag {
		if err := seed.Run(db); err != nil {
			log.Fatal("seeding failed", zap.Error(err))
		}
		log.Info("sample data seeded")
		return
	}

	rdb := config.NewRedis(cfg.RedisAddr)
	if rdb != nil {
		defer rdb.Close()
	}

	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	userRepo := repository.NewUserRepository(db)

	pricing := service.Pricing{TaxRate: cfg.TaxRate, DeliveryFee: cfg.DeliveryFee}
	orderService := service.NewOrderService(orderRepo, menuRepo, restaurantRepo, pricing, log)
	userService := service.NewUserService(userRepo, service.NewProfileCache(rdb), log)

	secret := []byte(cfg.JWTSecret)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Campus Grub Order API",
			"version": "1.0.0",
		})
	})

	routes.SetupRoutes(r, routes.Handlers{
		Auth:       handlers.NewAuthHandler(userService, secret, log),
		Orders:     handlers.NewOrderHandler(orderService, restaurantRepo, log),
		Restaurant: handlers.NewRestaurantHandler(restaurantRepo, menuRepo, orderService, log),
		Admin:      handlers.NewAdminHandler(orderService, restaurantRepo, userRepo, log),
		Public:     handlers.NewPublicHandler(restaurantRepo, menuRepo, log),
		JWTSecret:  secret,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
