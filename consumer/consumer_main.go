package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-drop-service/config"
	"github.com/tnqbao/gau-drop-service/consumer/worker"
	infraPkg "github.com/tnqbao/gau-drop-service/infra"
)

func main() {
	err := godotenv.Load("../.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupConsumer := worker.NewCleanupConsumer(infra.RabbitMQ.Channel, infra)
	if err := cleanupConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Cleanup consumer: %v", err)
		log.Fatalf("Failed to start Cleanup consumer: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	infra.Telemetry.Shutdown(context.Background())
	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")
}
