package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prudhivi99/shopsys-go/internal/config"
	"github.com/prudhivi99/shopsys-go/internal/consumer"
	"github.com/prudhivi99/shopsys-go/internal/db"
	"github.com/prudhivi99/shopsys-go/internal/messaging"
	"github.com/prudhivi99/shopsys-go/internal/publisher"
)

func main() {
	cfg := config.Load()

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Connect to RabbitMQ
	rabbitMQ, err := messaging.NewRabbitMQ(cfg.RabbitHost, cfg.RabbitPort, cfg.RabbitUser, cfg.RabbitPassword)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitMQ.Close()

	if err := rabbitMQ.DeclareQueue(publisher.OrderQueue); err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}
	if err := rabbitMQ.DeclareQueue(publisher.DeadLetterQueue); err != nil {
		log.Fatalf("Failed to declare dead-letter queue: %v", err)
	}

	messages, err := rabbitMQ.Consume(publisher.OrderQueue)
	if err != nil {
		log.Fatalf("Failed to consume messages: %v", err)
	}

	// Closing the connection ends the delivery channel and stops Run
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		rabbitMQ.Close()
	}()

	orderRepo := db.NewOrderRepository(database)
	orderConsumer := consumer.NewOrderConsumer(orderRepo, rabbitMQ, cfg.MaxDeliveryAttempts)

	log.Printf("🚀 order-worker consuming from %s", publisher.OrderQueue)
	orderConsumer.Run(messages)
	log.Println("Worker stopped")
}
