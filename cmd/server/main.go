package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/raychess-backend/internal/config"
	"github.com/benbeisheim/raychess-backend/internal/controller"
	"github.com/benbeisheim/raychess-backend/internal/service"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatal(err)
	}
	level, _ := cfg.Level()
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	gameManager := service.NewGameManager(service.Settings{
		TimeControl:         cfg.TimeControl,
		MaxPlies:            cfg.MaxPlies,
		MatchmakingInterval: cfg.MatchmakingInterval,
		BotSeed:             cfg.BotSeed,
	})
	go gameManager.Run(ctx)
	gameService := service.NewGameService(gameManager)

	app := controller.NewApp(cfg, gameService)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infow("listening", "addr", cfg.Addr, "timeControl", cfg.TimeControl.String(), "maxPlies", cfg.MaxPlies)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
