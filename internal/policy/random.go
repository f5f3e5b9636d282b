package policy

import (
	"math/rand"
	"sync"

	"github.com/benbeisheim/raychess-backend/internal/model"
)

// Random plays a uniformly random legal move.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Name() string { return "random" }

func (r *Random) ChooseMove(pos model.Position) (model.Move, error) {
	moves, err := legalMoves(&pos)
	if err != nil {
		return model.Move{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return moves[r.rng.Intn(len(moves))], nil
}
