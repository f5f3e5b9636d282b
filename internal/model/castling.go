package model

import (
	"fmt"
	"strings"
)

// CastlingRights holds the four independent castling flags.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

var castlingLetters = []struct {
	right  CastlingRights
	letter byte
}{
	{WhiteKingside, 'K'},
	{WhiteQueenside, 'Q'},
	{BlackKingside, 'k'},
	{BlackQueenside, 'q'},
}

func kingsideRight(side Side) CastlingRights {
	if side == Black {
		return BlackKingside
	}
	return WhiteKingside
}

func queensideRight(side Side) CastlingRights {
	if side == Black {
		return BlackQueenside
	}
	return WhiteQueenside
}

func (c CastlingRights) Has(r CastlingRights) bool {
	return c&r == r
}

// String returns the FEN field, "-" when no right is left.
func (c CastlingRights) String() string {
	var sb strings.Builder
	for _, l := range castlingLetters {
		if c.Has(l.right) {
			sb.WriteByte(l.letter)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// ParseCastlingRights reads a subset of "KQkq" or "-".
func ParseCastlingRights(text string) (CastlingRights, error) {
	if text == "-" {
		return NoCastling, nil
	}
	if text == "" {
		return NoCastling, fmt.Errorf("%w: empty castling field", ErrInvalidFEN)
	}
	var c CastlingRights
next:
	for i := 0; i < len(text); i++ {
		for _, l := range castlingLetters {
			if text[i] == l.letter {
				c |= l.right
				continue next
			}
		}
		return NoCastling, fmt.Errorf("%w: castling field %q", ErrInvalidFEN, text)
	}
	return c, nil
}

func (c CastlingRights) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CastlingRights) UnmarshalText(text []byte) error {
	rights, err := ParseCastlingRights(string(text))
	if err != nil {
		return err
	}
	*c = rights
	return nil
}

// rookHome returns the right tied to a rook standing on sq at the start.
func rookHome(sq Square) CastlingRights {
	switch sq {
	case SquareAt(7, 0):
		return WhiteKingside
	case SquareAt(0, 0):
		return WhiteQueenside
	case SquareAt(7, 7):
		return BlackKingside
	case SquareAt(0, 7):
		return BlackQueenside
	}
	return NoCastling
}

// AfterMove returns the rights left once m has been played and captured
// taken. A king move drops both of its side's rights; a rook leaving or
// being captured on its corner drops the matching one.
func (c CastlingRights) AfterMove(m Move, captured Piece) CastlingRights {
	switch m.Piece.Type {
	case King:
		c &^= kingsideRight(m.Piece.Side) | queensideRight(m.Piece.Side)
	case Rook:
		if r := rookHome(m.From); r != NoCastling && m.From.Rank() == m.Piece.Side.homeRank() {
			c &^= r
		}
	}
	if captured.Type == Rook {
		if r := rookHome(m.To); r != NoCastling && m.To.Rank() == captured.Side.homeRank() {
			c &^= r
		}
	}
	return c
}
