package model

// Direction is a (file, rank) step.
type Direction struct {
	DF, DR int
}

var (
	rookDirections   = []Direction{{1, 0}, {0, -1}, {-1, 0}, {0, 1}}
	bishopDirections = []Direction{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	queenDirections  = append(append([]Direction{}, rookDirections...), bishopDirections...)
	knightJumps      = []Direction{{-1, 2}, {1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}}
)

// Ray returns the squares reached by stepping from 'from' in direction d.
// It stops at the board edge or at the first occupied square, which is
// included only when it holds a piece of the other side. With single set
// at most one step is taken.
func (b *Board) Ray(from Square, d Direction, single bool) []Square {
	mover, _ := b[from].Owner()
	var squares []Square
	file, rank := from.File()+d.DF, from.Rank()+d.DR
	for onBoard(file, rank) {
		to := SquareAt(file, rank)
		target := b[to]
		if target.IsEmpty() {
			squares = append(squares, to)
		} else {
			if target.Side != mover {
				squares = append(squares, to)
			}
			break
		}
		if single {
			break
		}
		file, rank = file+d.DF, rank+d.DR
	}
	return squares
}

// pieceSet is a bitmask of piece types.
type pieceSet uint8

func setOf(types ...PieceType) pieceSet {
	var s pieceSet
	for _, t := range types {
		s |= 1 << t
	}
	return s
}

func (s pieceSet) has(t PieceType) bool {
	return s&(1<<t) != 0
}

var (
	straightAttackers = setOf(Rook, Queen)
	diagonalAttackers = setOf(Bishop, Queen)
	kingAttackers     = setOf(King)
	knightAttackers   = setOf(Knight)
	pawnAttackers     = setOf(Pawn)
)

// rayHits walks from 'from' in direction d and reports whether the first
// occupied square holds a piece of side 'by' whose type is in types.
func (b *Board) rayHits(from Square, d Direction, single bool, by Side, types pieceSet) bool {
	file, rank := from.File()+d.DF, from.Rank()+d.DR
	for onBoard(file, rank) {
		p := b[SquareAt(file, rank)]
		if !p.IsEmpty() {
			return p.Side == by && types.has(p.Type)
		}
		if single {
			return false
		}
		file, rank = file+d.DF, rank+d.DR
	}
	return false
}
