package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-drop-service/config"
	"github.com/tnqbao/gau-drop-service/http/controller"
	routes "github.com/tnqbao/gau-drop-service/http/route"
	infraPkg "github.com/tnqbao/gau-drop-service/infra"
	"github.com/tnqbao/gau-drop-service/repository"
	"github.com/tnqbao/gau-drop-service/service"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	defer infra.Telemetry.Shutdown(context.Background())

	repo := repository.InitRepository(infra)
	svc := service.InitService(cfg, infra, repo)

	ctrl := controller.NewController(cfg, infra, repo, svc)

	router := routes.SetupRouter(ctrl)

	addr := ":" + cfg.EnvConfig.Server.Port
	log.Println("HTTP Server started on", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
