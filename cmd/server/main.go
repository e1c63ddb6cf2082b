package main

import (
	"os"

	"github.com/benbeisheim/plychess/internal/config"
	"github.com/benbeisheim/plychess/internal/controller"
	"github.com/benbeisheim/plychess/internal/service"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Initialize services
	gameManager := service.NewGameManager(cfg.Rules(), cfg.ResolvedSeed())
	gameService := service.NewGameService(gameManager)

	app := controller.NewApp(gameService, cfg.AllowOrigins)

	log.Infof("HTTP listening on %s", cfg.Addr)
	log.Fatal(app.Listen(cfg.Addr))
}
