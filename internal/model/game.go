package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/raychess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// DefaultMaxPlies ends a game as a draw after this many plies.
const DefaultMaxPlies = 1000

type Outcome string

const (
	NoOutcome Outcome = "*"
	WhiteWon  Outcome = "1-0"
	BlackWon  Outcome = "0-1"
	Draw      Outcome = "1/2-1/2"
)

// Winner is the outcome of a game won by side.
func Winner(side Side) Outcome {
	if side == Black {
		return BlackWon
	}
	return WhiteWon
}

// Method is how a game ended.
type Method string

const (
	NoMethod    Method = ""
	Checkmate   Method = "checkmate"
	Stalemate   Method = "stalemate"
	BareKings   Method = "bare kings"
	MoveLimit   Method = "move limit"
	Timeout     Method = "timeout"
	Resignation Method = "resignation"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

type seat struct {
	id  string
	bot string
}

// Game is one game between two seats. All methods are safe for concurrent
// use; the board itself is only touched with g.mu held.
type Game struct {
	ID          string
	mu          sync.Mutex
	pos         Position
	plies       int
	maxPlies    int
	history     []Ply
	captured    CapturedPieces
	legal       []Move
	isCheck     bool
	outcome     Outcome
	method      Method
	seats       [2]seat
	clocks      [2]*Clock
	connections *GameConnections
}

type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

// GameState is the snapshot sent to clients.
type GameState struct {
	ID             string         `json:"id"`
	Board          Board          `json:"board"`
	FEN            string         `json:"fen"`
	ToMove         Side           `json:"toMove"`
	Castling       CastlingRights `json:"castling"`
	LastMove       *Move          `json:"lastMove"`
	MoveHistory    []Ply          `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	LegalMoves     []Move         `json:"legalMoves"`
	Outcome        Outcome        `json:"outcome"`
	Method         Method         `json:"method,omitempty"`
	Plies          int            `json:"plies"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

type GameOption func(*Game)

// WithPosition starts the game from pos instead of the initial position.
func WithPosition(pos Position) GameOption {
	return func(g *Game) {
		g.pos = pos
		if pos.Previous != nil {
			prev := *pos.Previous
			g.pos.Previous = &prev
		}
	}
}

// WithTimeControl gives each side the same budget. Zero means untimed.
func WithTimeControl(d time.Duration) GameOption {
	return func(g *Game) {
		g.clocks = [2]*Clock{NewClock(d), NewClock(d)}
	}
}

// WithMaxPlies caps the game length; n <= 0 removes the cap.
func WithMaxPlies(n int) GameOption {
	return func(g *Game) {
		g.maxPlies = n
	}
}

func NewGame(id string, opts ...GameOption) *Game {
	g := &Game{
		ID:          id,
		pos:         StartingPosition(),
		maxPlies:    DefaultMaxPlies,
		captured:    newCapturedPieces(),
		outcome:     NoOutcome,
		clocks:      [2]*Clock{NewClock(0), NewClock(0)},
		connections: NewGameConnections(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.refresh()
	return g
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

// refresh regenerates the legal moves after the position changed and
// decides whether the game is over.
func (g *Game) refresh() {
	legal, pieces := g.pos.LegalMoves()
	g.legal = legal
	g.isCheck = g.pos.Board.InCheck(g.pos.Turn)
	if g.outcome != NoOutcome {
		return
	}
	switch {
	case len(legal) == 0 && g.isCheck:
		g.finish(Winner(g.pos.Turn.Other()), Checkmate)
	case len(legal) == 0:
		g.finish(Draw, Stalemate)
	case len(pieces) == 2:
		g.finish(Draw, BareKings)
	case g.maxPlies > 0 && g.plies >= g.maxPlies:
		g.finish(Draw, MoveLimit)
	}
}

func (g *Game) finish(outcome Outcome, method Method) {
	g.outcome = outcome
	g.method = method
	for _, c := range g.clocks {
		c.Stop()
	}
	log.Infow("game finished", "game", g.ID, "outcome", string(outcome), "method", string(method), "plies", g.plies)
}

func (g *Game) AddPlayer(playerID string) (Side, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for side, s := range g.seats {
		if s.id == playerID {
			return Side(side), nil
		}
	}
	for side := range g.seats {
		if g.seats[side].id == "" {
			g.seats[side] = seat{id: playerID}
			log.Infow("player joined", "game", g.ID, "player", playerID, "side", Side(side).String())
			return Side(side), nil
		}
	}
	return White, ErrGameFull
}

// AddBot seats a computer player named after its policy. The returned id
// is what the bot uses when it moves.
func (g *Game) AddBot(policy string, side Side) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seats[side].id != "" {
		return "", ErrGameFull
	}
	id := fmt.Sprintf("bot:%s:%s", policy, side)
	g.seats[side] = seat{id: id, bot: policy}
	return id, nil
}

// Bot returns the policy name of the bot on move, if any.
func (g *Game) Bot() (id, policy string, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := g.seats[g.pos.Turn]
	if s.bot == "" || g.outcome != NoOutcome {
		return "", "", false
	}
	return s.id, s.bot, true
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	_, ok := g.sideOf(playerID)
	return ok
}

func (g *Game) sideOf(playerID string) (Side, bool) {
	for side, s := range g.seats {
		if s.id != "" && s.id == playerID {
			return Side(side), true
		}
	}
	return White, false
}

// CanSpectate reports whether the game still has a free seat.
func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.seats[White].id == "" || g.seats[Black].id == ""
}

// Position returns a copy of the current position.
func (g *Game) Position() Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	pos := g.pos
	if pos.Previous != nil {
		prev := *pos.Previous
		pos.Previous = &prev
	}
	return pos
}

// LegalMoves returns the moves available to the side on move.
func (g *Game) LegalMoves() []Move {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Move(nil), g.legal...)
}

func (g *Game) Result() (Outcome, Method) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outcome, g.method
}

// Play validates m against the legal moves and plays it. It is the entry
// point for local drivers; network players go through MakeMove.
func (g *Game) Play(m Move) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.play(m)
}

func (g *Game) play(m Move) (Ply, error) {
	if g.outcome != NoOutcome {
		return Ply{}, ErrGameOver
	}
	move, ok := g.findLegal(m)
	if !ok {
		return Ply{}, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	ply := Ply{Move: move, Notation: notation(&g.pos.Board, g.legal, move)}
	captured := g.pos.Board.ApplyMove(move)
	ply.Captured = captured
	if move.EnPassant {
		ply.Captured = Piece{Type: Pawn, Side: move.Piece.Side.Other()}
	}
	if !ply.Captured.IsEmpty() {
		if move.Piece.Side == White {
			g.captured.White = append(g.captured.White, ply.Captured)
		} else {
			g.captured.Black = append(g.captured.Black, ply.Captured)
		}
	}

	g.pos.Castling = g.pos.Castling.AfterMove(move, captured)
	g.pos.Previous = &move
	g.pos.Turn = g.pos.Turn.Other()
	g.plies++
	g.refresh()

	switch {
	case g.method == Checkmate:
		ply.Notation += "#"
	case g.isCheck:
		ply.Notation += "+"
	}
	g.history = append(g.history, ply)
	return ply, nil
}

func (g *Game) findLegal(m Move) (Move, bool) {
	for _, legal := range g.legal {
		if legal.sameAction(m) {
			return legal, true
		}
	}
	return Move{}, false
}

// MakeMove plays a client move for playerID, runs the clocks and pushes
// the new state to every observer.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	state, err := g.makeMove(playerID, move)
	if err != nil {
		return err
	}
	g.connections.broadcast(state)
	return nil
}

func (g *Game) makeMove(playerID string, move WSMove) (GameState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugw("making move", "game", g.ID, "player", playerID, "from", move.From.String(), "to", move.To.String())

	side, ok := g.sideOf(playerID)
	if !ok {
		return GameState{}, ErrNotInGame
	}
	if g.outcome != NoOutcome {
		return GameState{}, ErrGameOver
	}
	if side != g.pos.Turn {
		return GameState{}, ErrNotYourTurn
	}
	if !move.From.Valid() || !move.To.Valid() {
		return GameState{}, fmt.Errorf("%w: out of bounds", ErrIllegalMove)
	}

	clock := g.clocks[side]
	clock.Stop()
	if clock.Expired() {
		g.finish(Winner(side.Other()), Timeout)
		return g.state(), ErrGameOver
	}

	legal, err := findMove(g.legal, move)
	if err != nil {
		clock.Start()
		return GameState{}, err
	}
	if _, err := g.play(legal); err != nil {
		clock.Start()
		return GameState{}, err
	}
	if g.outcome == NoOutcome {
		g.clocks[g.pos.Turn].Start()
	}
	return g.state(), nil
}

// Resign ends the game in favour of the opponent of playerID.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	side, ok := g.sideOf(playerID)
	switch {
	case !ok:
		g.mu.Unlock()
		return ErrNotInGame
	case g.outcome != NoOutcome:
		g.mu.Unlock()
		return ErrGameOver
	}
	g.finish(Winner(side.Other()), Resignation)
	state := g.state()
	g.mu.Unlock()

	g.connections.broadcast(state)
	return nil
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() GameState {
	state := GameState{
		ID:          g.ID,
		Board:       g.pos.Board,
		FEN:         g.pos.FEN(),
		ToMove:      g.pos.Turn,
		Castling:    g.pos.Castling,
		MoveHistory: append(make([]Ply, 0, len(g.history)), g.history...),
		CapturedPieces: CapturedPieces{
			White: append(make([]Piece, 0, len(g.captured.White)), g.captured.White...),
			Black: append(make([]Piece, 0, len(g.captured.Black)), g.captured.Black...),
		},
		IsCheck:    g.isCheck,
		LegalMoves: append(make([]Move, 0, len(g.legal)), g.legal...),
		Outcome:    g.outcome,
		Method:     g.method,
		Plies:      g.plies,
	}
	if g.pos.Previous != nil {
		last := *g.pos.Previous
		state.LastMove = &last
	}
	state.Players.White = g.clientPlayer(White)
	state.Players.Black = g.clientPlayer(Black)
	return state
}

func (g *Game) clientPlayer(side Side) ClientPlayer {
	s := g.seats[side]
	return ClientPlayer{ID: s.id, Side: side, Bot: s.bot, Clock: g.clocks[side].client()}
}

// notation writes a move in short algebraic form without check marks.
func notation(b *Board, legal []Move, m Move) string {
	if m.IsCastle() {
		if m.IsKingside() {
			return "O-O"
		}
		return "O-O-O"
	}
	s := m.Piece.Type.getPieceNotation()
	capture := m.EnPassant || !b[m.To].IsEmpty()
	if m.Piece.Type == Pawn {
		if capture {
			s += string(files[m.From.File()])
		}
	} else {
		s += disambiguation(legal, m)
	}
	if capture {
		s += "x"
	}
	s += m.To.String()
	if m.Promotion != NoPieceType {
		s += "=" + string(m.Promotion.letter())
	}
	return s
}

func disambiguation(legal []Move, m Move) string {
	ambiguous, sameFile, sameRank := false, false, false
	for _, o := range legal {
		if o.To != m.To || o.From == m.From || o.Piece != m.Piece {
			continue
		}
		ambiguous = true
		sameFile = sameFile || o.From.File() == m.From.File()
		sameRank = sameRank || o.From.Rank() == m.From.Rank()
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(files[m.From.File()])
	case !sameRank:
		return fmt.Sprintf("%d", m.From.Rank()+1)
	}
	return m.From.String()
}

// RegisterConnection attaches an observer. Players of the game and anyone
// while a seat is free may observe.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		return ErrConnected
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infow("registered connection", "game", g.ID, "player", playerID)

	g.connections.broadcast(g.GetState())
	return nil
}

// UnregisterConnection removes conn if it is still the player's current one.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Infow("unregistered connection", "game", g.ID, "player", playerID)
	}
}

// broadcast sends the state to every connection, dropping those that fail.
func (gc *GameConnections) broadcast(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("failed to marshal state of game %s: %v", state.ID, err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: json.RawMessage(payload)}

	gc.mu.RLock()
	activeConnections := make(map[string]Conn, len(gc.connections))
	for playerID, conn := range gc.connections {
		activeConnections[playerID] = conn
	}
	gc.mu.RUnlock()

	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("failed to send state to player %s: %v", playerID, err)
			gc.mu.Lock()
			if gc.connections[playerID] == conn {
				delete(gc.connections, playerID)
			}
			gc.mu.Unlock()
		}
	}
}
