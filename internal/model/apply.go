package model

// castleRookFiles returns the rook's origin and destination files.
func castleRookFiles(m Move) (from, to int) {
	if m.IsKingside() {
		return 7, 5
	}
	return 0, 3
}

// enPassantVictim is the square of the pawn taken en passant: beside the
// mover's origin, on the destination file.
func enPassantVictim(m Move) Square {
	return SquareAt(m.To.File(), m.From.Rank())
}

// ApplyMove plays m on the board and returns the piece that stood on the
// destination square, which UndoMove needs to restore the position.
func (b *Board) ApplyMove(m Move) Piece {
	captured := b[m.To]
	placed := b[m.From]
	if m.Promotion != NoPieceType {
		placed = Piece{Type: m.Promotion, Side: placed.Side}
	}
	b[m.To] = placed
	b[m.From] = NoPiece

	if m.IsCastle() {
		rank := m.To.Rank()
		rookFrom, rookTo := castleRookFiles(m)
		b[SquareAt(rookTo, rank)] = b[SquareAt(rookFrom, rank)]
		b[SquareAt(rookFrom, rank)] = NoPiece
	}
	if m.EnPassant {
		b[enPassantVictim(m)] = NoPiece
	}
	return captured
}

// UndoMove reverts ApplyMove given the piece it returned.
func (b *Board) UndoMove(m Move, captured Piece) {
	moved := b[m.To]
	if m.Promotion != NoPieceType {
		moved = Piece{Type: Pawn, Side: moved.Side}
	}
	b[m.From] = moved
	b[m.To] = captured

	if m.IsCastle() {
		rank := m.To.Rank()
		rookFrom, rookTo := castleRookFiles(m)
		b[SquareAt(rookFrom, rank)] = b[SquareAt(rookTo, rank)]
		b[SquareAt(rookTo, rank)] = NoPiece
	}
	if m.EnPassant {
		b[enPassantVictim(m)] = Piece{Type: Pawn, Side: moved.Side.Other()}
	}
}

// WithMove applies m, calls fn with the captured piece and restores the
// board afterwards, also when fn panics.
func (b *Board) WithMove(m Move, fn func(captured Piece)) {
	captured := b.ApplyMove(m)
	defer b.UndoMove(m, captured)
	fn(captured)
}
