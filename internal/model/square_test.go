package model

import (
	"testing"

	"github.com/benbeisheim/raychess-backend/internal/testutil"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		text    string
		want    Square
		wantErr bool
	}{
		{"a1", 0, false},
		{"h1", 7, false},
		{"a8", 56, false},
		{"h8", 63, false},
		{"e4", SquareAt(4, 3), false},
		{"E4", SquareAt(4, 3), false},
		{"i1", NoSquare, true},
		{"a9", NoSquare, true},
		{"a0", NoSquare, true},
		{"e", NoSquare, true},
		{"e44", NoSquare, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseSquare(tt.text)
			if tt.wantErr {
				testutil.AssertErrorIs(t, err, ErrInvalidSquare)
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, tt.want)
			testutil.AssertEqual(t, got.String(), lowerString(tt.text))
		})
	}
}

func lowerString(s string) string {
	b := []byte(s)
	for i := range b {
		b[i] = lower(b[i])
	}
	return string(b)
}

func TestSquareCoords(t *testing.T) {
	for s := Square(0); s < 64; s++ {
		file, rank := s.Coords()
		if SquareAt(file, rank) != s {
			t.Errorf("SquareAt(%d, %d) = %d, want %d", file, rank, SquareAt(file, rank), s)
		}
	}
	testutil.AssertEqual(t, NoSquare.String(), "-")
	testutil.AssertFalse(t, NoSquare.Valid())
	testutil.AssertFalse(t, Square(64).Valid())
}

func TestPieceText(t *testing.T) {
	for _, c := range []byte("KQRBNPkqrbnp") {
		p, ok := PieceFromSymbol(c)
		testutil.AssertTrue(t, ok, "symbol %c", c)
		testutil.AssertEqual(t, p.Symbol(), c)
	}
	_, ok := PieceFromSymbol('x')
	testutil.AssertFalse(t, ok)

	var pt PieceType
	testutil.AssertNoError(t, pt.UnmarshalText([]byte("Knight")))
	testutil.AssertEqual(t, pt, Knight)
	testutil.AssertNoError(t, pt.UnmarshalText([]byte("q")))
	testutil.AssertEqual(t, pt, Queen)
	testutil.AssertTrue(t, pt.UnmarshalText([]byte("dragon")) != nil)

	var side Side
	testutil.AssertNoError(t, side.UnmarshalText([]byte("b")))
	testutil.AssertEqual(t, side, Black)
	testutil.AssertEqual(t, side.Other(), White)
	testutil.AssertTrue(t, NoPiece.IsEmpty())
	_, owned := NoPiece.Owner()
	testutil.AssertFalse(t, owned)
}
