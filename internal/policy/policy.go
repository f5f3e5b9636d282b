// Package policy chooses moves for computer and console players.
package policy

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/raychess-backend/internal/model"
)

// ErrNoMoves is returned when the side to move has no legal move.
var ErrNoMoves = errors.New("no legal moves")

// ErrUnknownPolicy is returned by New for an unregistered name.
var ErrUnknownPolicy = errors.New("unknown policy")

// Policy picks one of the legal moves of pos.Turn. Implementations may use
// pos.Board as scratch space but leave it as they found it.
type Policy interface {
	Name() string
	ChooseMove(pos model.Position) (model.Move, error)
}

// Names lists the policies New can build.
var Names = []string{"random", "greedy"}

// New builds a computer policy by name.
func New(name string, seed int64) (Policy, error) {
	switch name {
	case "random":
		return NewRandom(seed), nil
	case "greedy":
		return NewGreedy(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

func legalMoves(pos *model.Position) ([]model.Move, error) {
	moves, _ := pos.LegalMoves()
	if len(moves) == 0 {
		return nil, ErrNoMoves
	}
	return moves, nil
}
