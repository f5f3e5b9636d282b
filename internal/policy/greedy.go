package policy

import (
	"cmp"
	"math"

	"github.com/benbeisheim/raychess-backend/internal/model"
	"golang.org/x/exp/slices"
)

// mateScore outranks any material score.
const mateScore = 999999

var pieceValues = map[model.PieceType]float64{
	model.Queen:  9,
	model.Rook:   5,
	model.Bishop: 3,
	model.Knight: 3,
	model.Pawn:   1,
}

// totalMaterial is the material of one side at the start, used to bring the
// material balance into [-1, 1].
const totalMaterial = 39.0

// Greedy looks one ply ahead. It takes a mate in one when it sees one and
// otherwise maximises material balance, breaking near-ties by keeping its
// pieces close to the enemy king.
type Greedy struct{}

func NewGreedy() *Greedy { return &Greedy{} }

func (g *Greedy) Name() string { return "greedy" }

type scoredMove struct {
	move  model.Move
	score float64
}

func (g *Greedy) ChooseMove(pos model.Position) (model.Move, error) {
	moves, err := legalMoves(&pos)
	if err != nil {
		return model.Move{}, err
	}
	ranked := g.rank(&pos, moves)
	return ranked[0].move, nil
}

// rank scores every move and sorts best first. Equal scores keep generation
// order.
func (g *Greedy) rank(pos *model.Position, moves []model.Move) []scoredMove {
	side := pos.Turn
	enemy := side.Other()
	scored := make([]scoredMove, 0, len(moves))
	for _, m := range moves {
		var score float64
		pos.Board.WithMove(m, func(captured model.Piece) {
			enemyKing := pos.Board.FindKing(enemy)
			rights := pos.Castling.AfterMove(m, captured)
			if enemyKing != model.NoSquare && pos.Board.Attacked(enemyKing, side) &&
				!pos.Board.HasLegalMove(enemy, &m, rights) {
				score = mateScore
				return
			}
			score = Evaluate(&pos.Board, side)
		})
		scored = append(scored, scoredMove{move: m, score: score})
		if score == mateScore {
			break
		}
	}
	slices.SortStableFunc(scored, func(a, b scoredMove) int {
		return cmp.Compare(b.score, a.score)
	})
	return scored
}

// Evaluate scores the board for side: material balance over the starting
// material minus a thousandth of the summed distance of side's pieces to
// the enemy king.
func Evaluate(b *model.Board, side model.Side) float64 {
	var own, opp, dist float64
	enemyKing := b.FindKing(side.Other())
	for sq := model.Square(0); sq < 64; sq++ {
		p := b[sq]
		if p.IsEmpty() {
			continue
		}
		if p.Side != side {
			opp += pieceValues[p.Type]
			continue
		}
		own += pieceValues[p.Type]
		if enemyKing != model.NoSquare {
			dist += distance(sq, enemyKing)
		}
	}
	return (own-opp)/totalMaterial - dist/1000
}

func distance(a, b model.Square) float64 {
	df := float64(a.File() - b.File())
	dr := float64(a.Rank() - b.Rank())
	return math.Sqrt(df*df + dr*dr)
}
