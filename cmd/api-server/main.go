package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prudhivi99/shopsys-go/internal/auth"
	"github.com/prudhivi99/shopsys-go/internal/cache"
	"github.com/prudhivi99/shopsys-go/internal/config"
	"github.com/prudhivi99/shopsys-go/internal/db"
	"github.com/prudhivi99/shopsys-go/internal/discovery"
	"github.com/prudhivi99/shopsys-go/internal/handlers"
	"github.com/prudhivi99/shopsys-go/internal/messaging"
	"github.com/prudhivi99/shopsys-go/internal/publisher"
	"github.com/prudhivi99/shopsys-go/internal/reviews"
)

const (
	serviceName = "api-server"
	serviceID   = "api-server-1"
)

func main() {
	cfg := config.Load()

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Connect to Redis
	redisClient, err := cache.NewClient(cfg.RedisHost, cfg.RedisPort)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := reviews.Connect(ctx, cfg.MongoURI)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	// Connect to RabbitMQ
	rabbitMQ, err := messaging.NewRabbitMQ(cfg.RabbitHost, cfg.RabbitPort, cfg.RabbitUser, cfg.RabbitPassword)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	// Create publisher
	orderPublisher, err := publisher.NewOrderPublisher(rabbitMQ)
	if err != nil {
		log.Fatalf("Failed to create publisher: %v", err)
	}

	// Register with Consul; discovery is optional in local setups
	consul, err := discovery.NewConsulClient(cfg.ConsulHost, cfg.ConsulPort)
	if err != nil {
		log.Printf("⚠️ Consul unavailable, skipping registration: %v", err)
		consul = nil
	} else {
		err = consul.Register(discovery.ServiceConfig{
			Name: serviceName,
			ID:   serviceID,
			Port: cfg.HTTPPort,
			Tags: []string{"api", "shop"},
		})
		if err != nil {
			log.Fatalf("Failed to register service: %v", err)
		}
	}

	// Deregister on shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		if consul != nil {
			consul.Deregister(serviceID)
		}
		os.Exit(0)
	}()

	// Create repositories and stores
	userRepo := db.NewUserRepository(database)
	productRepo := db.NewProductRepository(database)
	orderRepo := db.NewOrderRepository(database)
	reviewStore := reviews.NewStore(mongoClient, cfg.MongoDB)

	sessionStore := cache.NewSessionStore(redisClient, cfg.SessionTTL)
	productCache := cache.NewCache(redisClient, cfg.ProductCacheTTL)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)

	// Create handlers
	authHandler := handlers.NewAuthHandler(userRepo, sessionStore, tokens)
	productHandler := handlers.NewProductHandler(productRepo, productCache)
	orderHandler := handlers.NewOrderHandler(orderRepo, productRepo, orderPublisher)
	commentHandler := handlers.NewCommentHandler(reviewStore)

	// Setup router
	router := gin.Default()

	router.GET("/health", productHandler.HealthCheck)

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.GET("/profile", auth.Middleware(tokens, sessionStore), authHandler.Profile)

	router.GET("/products", productHandler.ListProducts)
	router.GET("/products/:id", productHandler.GetProduct)
	router.POST("/products", productHandler.CreateProduct)
	router.DELETE("/products/:id", productHandler.DeleteProduct)

	router.POST("/orders", orderHandler.CreateOrder)
	router.GET("/orders", orderHandler.ListOrders)
	router.GET("/orders/:id", orderHandler.GetOrder)

	router.POST("/products/:id/comments", commentHandler.AddComment)
	router.GET("/products/:id/comments", commentHandler.ListComments)

	// Start server
	log.Printf("🚀 %s starting on http://localhost:%d", serviceName, cfg.HTTPPort)
	router.Run(fmt.Sprintf(":%d", cfg.HTTPPort))
}
