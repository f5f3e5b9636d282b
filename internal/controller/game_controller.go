package controller

import (
	"errors"

	"github.com/benbeisheim/raychess-backend/internal/config"
	"github.com/benbeisheim/raychess-backend/internal/middleware"
	"github.com/benbeisheim/raychess-backend/internal/model"
	"github.com/benbeisheim/raychess-backend/internal/policy"
	"github.com/benbeisheim/raychess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// errorStatus maps service and model errors to HTTP codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrInvalidMove),
		errors.Is(err, model.ErrInvalidSquare),
		errors.Is(err, model.ErrInvalidFEN),
		errors.Is(err, policy.ErrUnknownPolicy):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotInGame), errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrPlayerQueued),
		errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// CreatePlayer hands out a fresh player id.
func (gc *GameController) CreatePlayer(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"playerId": uuid.New().String(),
	})
}

type createGameRequest struct {
	FEN string `json:"fen"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	gameID, err := gc.gameService.CreateGame(req.FEN)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

type botGameRequest struct {
	Policy string     `json:"policy"`
	Color  model.Side `json:"color"`
	FEN    string     `json:"fen"`
}

// CreateBotGame starts a game against a computer policy.
func (gc *GameController) CreateBotGame(c *fiber.Ctx) error {
	req := botGameRequest{Policy: "greedy"}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	gameID, err := gc.gameService.CreateBotGame(middleware.PlayerID(c), req.Policy, req.Color, req.FEN)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
		"color":   req.Color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

// GetLegalMoves lists the moves of the side on move in coordinate notation.
func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.GetLegalMoves(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	uci := make([]string, len(moves))
	for i, m := range moves {
		uci[i] = m.String()
	}
	return c.JSON(fiber.Map{
		"moves": uci,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, middleware.PlayerID(c), move); err != nil {
		return sendError(c, err)
	}
	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	if err := gc.gameService.Resign(c.Params("gameId"), middleware.PlayerID(c)); err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Resigned",
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// MatchStatus returns a match made while the player had no socket open.
func (gc *GameController) MatchStatus(c *fiber.Ctx) error {
	event, ok := gc.gameService.MatchStatus(middleware.PlayerID(c))
	if !ok {
		return c.JSON(fiber.Map{
			"status": "waiting",
		})
	}
	return c.JSON(fiber.Map{
		"status": "matched",
		"match":  event,
	})
}

// Config is exposed read-only so clients can show the time control.
func ConfigHandler(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timeControl": cfg.TimeControl.String(),
			"maxPlies":    cfg.MaxPlies,
			"bots":        policy.Names,
		})
	}
}
