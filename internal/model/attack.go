package model

// Attacked reports whether any piece of side 'by' attacks sq, regardless of
// whose turn it is and of pins against by's own king.
func (b *Board) Attacked(sq Square, by Side) bool {
	for _, d := range rookDirections {
		if b.rayHits(sq, d, false, by, straightAttackers) {
			return true
		}
	}
	for _, d := range bishopDirections {
		if b.rayHits(sq, d, false, by, diagonalAttackers) {
			return true
		}
	}
	for _, d := range queenDirections {
		if b.rayHits(sq, d, true, by, kingAttackers) {
			return true
		}
	}
	for _, d := range knightJumps {
		if b.rayHits(sq, d, true, by, knightAttackers) {
			return true
		}
	}
	// A pawn attacking sq stands one rank behind it from its own point of view.
	back := -by.forward()
	return b.rayHits(sq, Direction{-1, back}, true, by, pawnAttackers) ||
		b.rayHits(sq, Direction{1, back}, true, by, pawnAttackers)
}

// InCheck reports whether side's king is attacked. A side without a king is
// never in check.
func (b *Board) InCheck(side Side) bool {
	king := b.FindKing(side)
	return king != NoSquare && b.Attacked(king, side.Other())
}
