// service/game_manager.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/raychess-backend/internal/model"
	"github.com/benbeisheim/raychess-backend/internal/policy"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// Settings are applied to every game the manager creates.
type Settings struct {
	TimeControl         time.Duration
	MaxPlies            int
	MatchmakingInterval time.Duration
	BotSeed             int64
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	pending          map[string]model.MatchFoundEvent
	policies         map[string]policy.Policy
	settings         Settings
	mu               sync.RWMutex
}

func NewGameManager(settings Settings) *GameManager {
	if settings.MatchmakingInterval <= 0 {
		settings.MatchmakingInterval = time.Second
	}
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		pending:          make(map[string]model.MatchFoundEvent),
		policies:         make(map[string]policy.Policy),
		settings:         settings,
	}
}

func (gm *GameManager) newGame(id string, opts ...model.GameOption) *model.Game {
	opts = append([]model.GameOption{
		model.WithTimeControl(gm.settings.TimeControl),
		model.WithMaxPlies(gm.settings.MaxPlies),
	}, opts...)
	return model.NewGame(id, opts...)
}

// Run pairs queued players on every tick until ctx is done.
func (gm *GameManager) Run(ctx context.Context) {
	ticker := time.NewTicker(gm.settings.MatchmakingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.processMatchmaking()
		}
	}
}

// processMatchmaking pairs as many waiting players as it can.
func (gm *GameManager) processMatchmaking() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.NextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := gm.newGame(gameID)
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.Errorf("adding player %s to game %s: %v", player1.ID, gameID, err)
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.Errorf("adding player %s to game %s: %v", player2.ID, gameID, err)
			continue
		}
		gm.games[gameID] = game
		log.Infow("match found", "game", gameID, "white", player1.ID, "black", player2.ID)

		gm.notifyMatch(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
		gm.notifyMatch(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	}
}

// notifyMatch delivers the event on the player's channel, or keeps it until
// the player asks. Must be called with gm.mu held.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if ok {
		select {
		case ch <- mustJSON(event):
			delete(gm.matchingChannels, playerID)
			close(ch)
			return
		default:
			log.Warnf("matchmaking channel of player %s is full", playerID)
		}
	}
	gm.pending[playerID] = event
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}
	if event, ok := gm.pending[playerID]; ok {
		delete(gm.pending, playerID)
		ch <- mustJSON(event)
		close(ch)
		return
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets the channel without closing it; the
// creator owns it. The player also leaves the queue.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.RemovePlayer(playerID)
	}
}

// MatchStatus returns and forgets an undelivered match for playerID.
func (gm *GameManager) MatchStatus(playerID string) (model.MatchFoundEvent, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	event, ok := gm.pending[playerID]
	if ok {
		delete(gm.pending, playerID)
	}
	return event, ok
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) CreateGame(gameID string, opts ...model.GameOption) (*model.Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}
	game := gm.newGame(gameID, opts...)
	gm.games[gameID] = game
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

// Policy returns the shared policy registered under name.
func (gm *GameManager) Policy(name string) (policy.Policy, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if p, ok := gm.policies[name]; ok {
		return p, nil
	}
	p, err := policy.New(name, gm.settings.BotSeed)
	if err != nil {
		return nil, err
	}
	gm.policies[name] = p
	return p, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Side, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.White, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	delete(gm.pending, playerID)
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

// MakeMove plays a player's move and then lets any bot on move reply.
func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.MakeMove(playerID, move); err != nil {
		return err
	}
	return gm.PlayBots(game)
}

// PlayBots moves for computer players until a human is on move or the game
// ends.
func (gm *GameManager) PlayBots(game *model.Game) error {
	for {
		botID, name, ok := game.Bot()
		if !ok {
			return nil
		}
		p, err := gm.Policy(name)
		if err != nil {
			return err
		}
		move, err := p.ChooseMove(game.Position())
		if err != nil {
			return fmt.Errorf("bot %s: %w", name, err)
		}
		wsMove := model.WSMove{From: move.From, To: move.To, Promotion: move.Promotion}
		if err := game.MakeMove(botID, wsMove); err != nil {
			return fmt.Errorf("bot %s played %s: %w", name, move, err)
		}
	}
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
