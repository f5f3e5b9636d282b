package model

import (
	"fmt"
	"sort"
	"testing"

	"github.com/corentings/chess/v2"
	"github.com/dylhunn/dragontoothmg"

	"github.com/benbeisheim/raychess-backend/internal/testutil"
)

func perft(pos Position, depth int) int {
	moves, _ := pos.LegalMoves()
	if depth == 1 {
		return len(moves)
	}
	nodes := 0
	for _, m := range moves {
		nodes += perft(next(pos, m), depth-1)
	}
	return nodes
}

func TestPerft(t *testing.T) {
	tests := []struct {
		fen   string
		nodes []int
	}{
		{InitialFEN, []int{20, 400, 8902}},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []int{48, 2039}},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []int{14, 191, 2812}},
		{"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []int{6, 264, 9467}},
		{"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []int{44, 1486}},
	}

	for _, tt := range tests {
		pos := mustFEN(t, tt.fen)
		for i, want := range tt.nodes {
			depth := i + 1
			t.Run(fmt.Sprintf("%s/%d", pos.FEN(), depth), func(t *testing.T) {
				if depth > 2 && testing.Short() {
					t.Skip("deep perft")
				}
				testutil.AssertEqual(t, perft(pos, depth), want)
			})
		}
	}
}

// dragontoothPerft counts leaf nodes with an independent bitboard generator.
func dragontoothPerft(b *dragontoothmg.Board, depth int) int {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return len(moves)
	}
	nodes := 0
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += dragontoothPerft(b, depth-1)
		unapply()
	}
	return nodes
}

func TestPerftMatchesDragontooth(t *testing.T) {
	for _, tt := range testPositions {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			b := dragontoothmg.ParseFen(pos.FullFEN())
			for depth := 1; depth <= 2; depth++ {
				testutil.AssertEqual(t, perft(pos, depth), dragontoothPerft(&b, depth), "depth %d", depth)
			}
		})
	}
}

// referenceMoves lists the legal moves of fen as found by a second library.
func referenceMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen)
	testutil.AssertNoError(t, err)
	g := chess.NewGame(opt)
	valid := g.ValidMoves()
	list := make([]string, 0, len(valid))
	for i := range valid {
		list = append(list, valid[i].String())
	}
	sort.Strings(list)
	return list
}

func TestLegalMovesMatchReference(t *testing.T) {
	for _, tt := range testPositions {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustFEN(t, tt.fen)
			moves, _ := pos.LegalMoves()
			testutil.AssertEqual(t, uciList(moves), referenceMoves(t, pos.FullFEN()))

			// One ply deeper covers castling rights and en passant after a move.
			for _, m := range moves {
				after := next(pos, m)
				replies, _ := after.LegalMoves()
				testutil.AssertEqual(t, uciList(replies), referenceMoves(t, after.FullFEN()), "after %s", m)
			}
		})
	}
}
