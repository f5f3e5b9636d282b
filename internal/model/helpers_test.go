package model

import (
	"sort"
	"testing"
)

// Positions used by several tests. Every one is reachable from a legal game.
var testPositions = []struct {
	name string
	fen  string
}{
	{"initial", InitialFEN},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"},
	{"rook endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"},
	{"promotions", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"},
	{"discovered checks", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"},
	{"en passant", "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3"},
	{"black to move", "r3k2r/8/8/8/3pP3/8/8/R3K2R b KQkq e3 0 1"},
}

func mustFEN(t testing.TB, fen string) Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

// uciList returns the coordinate notation of moves, sorted.
func uciList(moves []Move) []string {
	list := make([]string, 0, len(moves))
	for _, m := range moves {
		list = append(list, m.String())
	}
	sort.Strings(list)
	return list
}

func findUCI(moves []Move, uci string) (Move, bool) {
	for _, m := range moves {
		if m.String() == uci {
			return m, true
		}
	}
	return Move{}, false
}

// next plays m on a copy of pos the way a game does.
func next(pos Position, m Move) Position {
	after := pos
	captured := after.Board.ApplyMove(m)
	after.Castling = pos.Castling.AfterMove(m, captured)
	played := m
	after.Previous = &played
	after.Turn = pos.Turn.Other()
	return after
}

func sq(t testing.TB, name string) Square {
	t.Helper()
	s, err := ParseSquare(name)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
