package model

import (
	"testing"

	"github.com/benbeisheim/raychess-backend/internal/testutil"
)

func TestApplyUndoRoundTrip(t *testing.T) {
	for _, tt := range testPositions {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			before := pos.Board
			moves, _ := pos.LegalMoves()
			for _, m := range moves {
				captured := pos.Board.ApplyMove(m)
				pos.Board.UndoMove(m, captured)
				if pos.Board != before {
					t.Fatalf("%s did not round trip:\n%s", m, pos.Board.Draw())
				}
			}
		})
	}
}

func TestApplyCastle(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq -")
	tests := []struct {
		move       Move
		king, rook string
	}{
		{Move{From: sq(t, "e1"), To: sq(t, "g1"), Piece: NewPiece(King, White)}, "g1", "f1"},
		{Move{From: sq(t, "e1"), To: sq(t, "c1"), Piece: NewPiece(King, White)}, "c1", "d1"},
		{Move{From: sq(t, "e8"), To: sq(t, "g8"), Piece: NewPiece(King, Black)}, "g8", "f8"},
		{Move{From: sq(t, "e8"), To: sq(t, "c8"), Piece: NewPiece(King, Black)}, "c8", "d8"},
	}

	for _, tt := range tests {
		t.Run(tt.move.String(), func(t *testing.T) {
			b := pos.Board
			captured := b.ApplyMove(tt.move)
			testutil.AssertTrue(t, captured.IsEmpty())
			testutil.AssertEqual(t, b[sq(t, tt.king)], tt.move.Piece)
			testutil.AssertEqual(t, b[sq(t, tt.rook)], NewPiece(Rook, tt.move.Piece.Side))
			testutil.AssertEqual(t, len(b.Pieces()), 6)
			b.UndoMove(tt.move, captured)
			testutil.AssertEqual(t, b, pos.Board)
		})
	}
}

func TestApplyPromotionCapture(t *testing.T) {
	pos := mustFEN(t, "1n2k3/P7/8/8/8/8/8/4K3 w - -")
	b := pos.Board
	m := Move{From: sq(t, "a7"), To: sq(t, "b8"), Piece: NewPiece(Pawn, White), Promotion: Knight}

	captured := b.ApplyMove(m)
	testutil.AssertEqual(t, captured, NewPiece(Knight, Black))
	testutil.AssertEqual(t, b[sq(t, "b8")], NewPiece(Knight, White))
	b.UndoMove(m, captured)
	testutil.AssertEqual(t, b[sq(t, "a7")], NewPiece(Pawn, White))
	testutil.AssertEqual(t, b, pos.Board)
}

func TestWithMoveRestoresOnPanic(t *testing.T) {
	pos := StartingPosition()
	before := pos.Board
	m := Move{From: sq(t, "e2"), To: sq(t, "e4"), Piece: NewPiece(Pawn, White)}

	func() {
		defer func() {
			testutil.AssertTrue(t, recover() != nil, "panic propagates")
		}()
		pos.Board.WithMove(m, func(Piece) {
			testutil.AssertEqual(t, pos.Board[sq(t, "e4")], NewPiece(Pawn, White))
			panic("scoring failed")
		})
	}()
	testutil.AssertEqual(t, pos.Board, before)
}
