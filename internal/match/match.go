// Package match plays games between two policies on a local console.
package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/benbeisheim/raychess-backend/internal/model"
	"github.com/benbeisheim/raychess-backend/internal/policy"
	"github.com/gofiber/fiber/v2/log"
)

// Score tallies a series from the first policy's point of view.
type Score struct {
	P1Wins int `json:"p1Wins"`
	P2Wins int `json:"p2Wins"`
	Draws  int `json:"draws"`
}

func (s Score) String() string {
	return fmt.Sprintf("P1 %d, P2 %d, Draws: %d", s.P1Wins, s.P2Wins, s.Draws)
}

// Result is the end of one game.
type Result struct {
	Outcome model.Outcome
	Method  model.Method
	Plies   int
	P1Side  model.Side
	FEN     string
}

// Runner plays games between P1 and P2.
type Runner struct {
	P1, P2   policy.Policy
	Start    model.Position
	MaxPlies int
	// Out receives the board and FEN after every ply; nil keeps quiet.
	Out io.Writer
	// Coin decides P1's colour for each game.
	Coin *rand.Rand
}

// NewRunner prepares a runner from the standard starting position.
func NewRunner(p1, p2 policy.Policy) *Runner {
	return &Runner{P1: p1, P2: p2, Start: model.StartingPosition(), MaxPlies: model.DefaultMaxPlies}
}

// Series plays n games, or until ctx is cancelled, and returns the tally.
func (r *Runner) Series(ctx context.Context, n int) (Score, error) {
	var score Score
	for i := 0; i < n; i++ {
		p1Side := model.White
		if r.Coin != nil && r.Coin.Intn(2) == 1 {
			p1Side = model.Black
		}
		res, err := r.Game(ctx, fmt.Sprintf("game-%d", i+1), p1Side)
		if err != nil {
			return score, err
		}
		switch res.Outcome {
		case model.Draw:
			score.Draws++
		case model.Winner(p1Side):
			score.P1Wins++
		default:
			score.P2Wins++
		}
		log.Infow("game over", "game", i+1, "result", string(res.Outcome), "method", string(res.Method), "plies", res.Plies, "score", score.String())
		r.printf("%s\n\n", score)
	}
	return score, nil
}

// Game plays one game with P1 on p1Side.
func (r *Runner) Game(ctx context.Context, id string, p1Side model.Side) (Result, error) {
	maxPlies := r.MaxPlies
	if maxPlies == 0 {
		maxPlies = model.DefaultMaxPlies
	}
	game := model.NewGame(id, model.WithPosition(r.Start), model.WithMaxPlies(maxPlies))
	players := [2]policy.Policy{r.P2, r.P2}
	players[p1Side] = r.P1

	for {
		if outcome, method := game.Result(); outcome != model.NoOutcome {
			state := game.GetState()
			return Result{Outcome: outcome, Method: method, Plies: state.Plies, P1Side: p1Side, FEN: state.FEN}, nil
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		pos := game.Position()
		player := players[pos.Turn]
		move, err := player.ChooseMove(pos)
		if err != nil {
			return Result{}, fmt.Errorf("%s (%s) failed to move: %w", player.Name(), pos.Turn, err)
		}
		ply, err := game.Play(move)
		if errors.Is(err, model.ErrIllegalMove) {
			// A computer policy only picks from the generated list, so this is a bug.
			return Result{}, fmt.Errorf("%s (%s) played %s in %s: %w", player.Name(), pos.Turn, move, pos.FEN(), err)
		}
		if err != nil {
			return Result{}, err
		}

		after := game.Position()
		r.printf("%s: %s %s\n%s%s\n\n", id, pos.Turn, ply.Notation, after.Board.Draw(), after.FEN())
	}
}

func (r *Runner) printf(format string, args ...interface{}) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, args...)
	}
}
