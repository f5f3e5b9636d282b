package service

import (
	"fmt"

	"github.com/benbeisheim/raychess-backend/internal/model"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Side, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame starts a game from fen, or from the initial position when fen
// is empty.
func (gs *GameService) CreateGame(fen string) (string, error) {
	var opts []model.GameOption
	if fen != "" {
		pos, err := model.ParseFEN(fen)
		if err != nil {
			return "", err
		}
		opts = append(opts, model.WithPosition(pos))
	}

	gameID := uuid.New().String()
	if _, err := gs.gameManager.CreateGame(gameID, opts...); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

// CreateBotGame seats playerID on side against the named policy. If the bot
// moves first it has already replied when this returns.
func (gs *GameService) CreateBotGame(playerID string, botPolicy string, side model.Side, fen string) (string, error) {
	if _, err := gs.gameManager.Policy(botPolicy); err != nil {
		return "", err
	}
	gameID, err := gs.CreateGame(fen)
	if err != nil {
		return "", err
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	if _, err := game.AddBot(botPolicy, side.Other()); err != nil {
		return "", err
	}
	if _, err := game.AddPlayer(playerID); err != nil {
		return "", err
	}
	if err := gs.gameManager.PlayBots(game); err != nil {
		return "", err
	}
	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) MatchStatus(playerID string) (model.MatchFoundEvent, bool) {
	return gs.gameManager.MatchStatus(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) GetLegalMoves(gameID string) ([]model.Move, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) Resign(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
