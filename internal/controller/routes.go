package controller

import (
	"github.com/benbeisheim/raychess-backend/internal/config"
	"github.com/benbeisheim/raychess-backend/internal/middleware"
	"github.com/benbeisheim/raychess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

// NewApp builds the fiber application with every route wired to svc.
func NewApp(cfg config.Config, gameService *service.GameService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "raychess",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)

	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.Origins(),
	}
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	wsRoutes.Get("/game/:gameId", websocket.New(wsController.HandleConnection, wsConfig))
	wsRoutes.Get("/matchmaking", websocket.New(wsController.HandleMatchmaking, wsConfig))

	app.Post("/api/player", gameController.CreatePlayer)
	app.Get("/api/config", ConfigHandler(cfg))

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Get("/matchmaking/status", gameController.MatchStatus)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/bot", gameController.CreateBotGame)
	gameRoutes.Post("/:gameId/join", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves", gameController.GetLegalMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/resign", gameController.Resign)

	return app
}
