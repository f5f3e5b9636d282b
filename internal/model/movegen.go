package model

var promotionTypes = []PieceType{Knight, Bishop, Rook, Queen}

// LegalMoves returns the legal moves of side and every piece on the board.
// prev is the last move played (nil at the start) and is only used for en
// passant. The order is stable for a given position.
//
// LegalMoves temporarily plays each candidate on b and undoes it, so it must
// not run concurrently with any other use of the same Board.
func (b *Board) LegalMoves(side Side, prev *Move, rights CastlingRights) ([]Move, []Piece) {
	pieces := make([]Piece, 0, 32)
	var psuedoMoves []Move
	for from := Square(0); from < 64; from++ {
		p := b[from]
		if p.IsEmpty() {
			continue
		}
		pieces = append(pieces, p)
		if p.Side != side {
			continue
		}
		switch p.Type {
		case Pawn:
			psuedoMoves = b.getPsuedoPawnMoves(psuedoMoves, from, prev)
		case Knight:
			psuedoMoves = b.getPsuedoStepMoves(psuedoMoves, from, knightJumps, true)
		case Bishop:
			psuedoMoves = b.getPsuedoStepMoves(psuedoMoves, from, bishopDirections, false)
		case Rook:
			psuedoMoves = b.getPsuedoStepMoves(psuedoMoves, from, rookDirections, false)
		case Queen:
			psuedoMoves = b.getPsuedoStepMoves(psuedoMoves, from, queenDirections, false)
		case King:
			psuedoMoves = b.getPsuedoStepMoves(psuedoMoves, from, queenDirections, true)
			psuedoMoves = b.getCastleMoves(psuedoMoves, from, rights)
		}
	}
	return b.filterLegalMoves(psuedoMoves, side), pieces
}

// HasLegalMove reports whether side can move at all.
func (b *Board) HasLegalMove(side Side, prev *Move, rights CastlingRights) bool {
	moves, _ := b.LegalMoves(side, prev, rights)
	return len(moves) > 0
}

// filterLegalMoves drops moves that leave the mover's king attacked or
// missing.
func (b *Board) filterLegalMoves(psuedoMoves []Move, side Side) []Move {
	legalMoves := make([]Move, 0, len(psuedoMoves))
	for _, move := range psuedoMoves {
		legal := false
		b.WithMove(move, func(Piece) {
			king := b.FindKing(side)
			legal = king != NoSquare && !b.Attacked(king, side.Other())
		})
		if legal {
			legalMoves = append(legalMoves, move)
		}
	}
	return legalMoves
}

func (b *Board) getPsuedoStepMoves(moves []Move, from Square, dirs []Direction, single bool) []Move {
	piece := b[from]
	for _, d := range dirs {
		for _, to := range b.Ray(from, d, single) {
			moves = append(moves, Move{From: from, To: to, Piece: piece})
		}
	}
	return moves
}

func (b *Board) getPsuedoPawnMoves(moves []Move, from Square, prev *Move) []Move {
	piece := b[from]
	side := piece.Side
	file, rank := from.Coords()
	dir := side.forward()
	lastRank := 7
	startRank := 1
	if side == Black {
		lastRank, startRank = 0, 6
	}

	add := func(to Square) {
		if to.Rank() != lastRank {
			moves = append(moves, Move{From: from, To: to, Piece: piece})
			return
		}
		for _, promo := range promotionTypes {
			moves = append(moves, Move{From: from, To: to, Piece: piece, Promotion: promo})
		}
	}

	// Check move forward 1, then 2 from the starting rank
	if b.isEmptyAt(file, rank+dir) {
		add(SquareAt(file, rank+dir))
		if rank == startRank && b.isEmptyAt(file, rank+2*dir) {
			add(SquareAt(file, rank+2*dir))
		}
	}
	// Captures need an enemy piece on the diagonal
	for _, df := range []int{1, -1} {
		target := b.at(file+df, rank+dir)
		if !target.IsEmpty() && target.Side != side {
			add(SquareAt(file+df, rank+dir))
		}
	}
	// En passant against an enemy pawn that just stepped two squares beside us
	if prev != nil && prev.isDoubleStep() && prev.Piece.Side != side &&
		prev.To.Rank() == rank && abs(prev.To.File()-file) == 1 &&
		b[prev.To] == prev.Piece {
		to := SquareAt(prev.To.File(), rank+dir)
		if b[to].IsEmpty() {
			moves = append(moves, Move{From: from, To: to, Piece: piece, EnPassant: true})
		}
	}
	return moves
}

// getCastleMoves adds castling for a king on its home square. Only the
// squares the king crosses or lands on must be safe; on the queen side the
// b-file square just has to be empty.
func (b *Board) getCastleMoves(moves []Move, from Square, rights CastlingRights) []Move {
	king := b[from]
	side := king.Side
	home := side.homeRank()
	ks, qs := kingsideRight(side), queensideRight(side)
	if from != SquareAt(4, home) || !(rights.Has(ks) || rights.Has(qs)) {
		return moves
	}
	enemy := side.Other()
	if b.Attacked(from, enemy) {
		return moves
	}
	rook := Piece{Type: Rook, Side: side}
	safe := func(file int) bool {
		return b.isEmptyAt(file, home) && !b.Attacked(SquareAt(file, home), enemy)
	}
	if rights.Has(ks) && b[SquareAt(7, home)] == rook && safe(5) && safe(6) {
		moves = append(moves, Move{From: from, To: SquareAt(6, home), Piece: king})
	}
	if rights.Has(qs) && b[SquareAt(0, home)] == rook && b.isEmptyAt(1, home) && safe(2) && safe(3) {
		moves = append(moves, Move{From: from, To: SquareAt(2, home), Piece: king})
	}
	return moves
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
