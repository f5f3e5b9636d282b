package model

import (
	"fmt"
	"strings"
)

// Move is a single ply. Promotion is NoPieceType unless a pawn reaches the
// last rank; EnPassant is set only for the en-passant capture itself.
type Move struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Piece     Piece     `json:"piece"`
	Promotion PieceType `json:"promotion,omitempty"`
	EnPassant bool      `json:"enPassant,omitempty"`
}

// String returns coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += string(lower(m.Promotion.letter()))
	}
	return s
}

// IsCastle reports whether the move is a king moving two files.
func (m Move) IsCastle() bool {
	if m.Piece.Type != King {
		return false
	}
	d := m.To.File() - m.From.File()
	return d == 2 || d == -2
}

// IsKingside is meaningful only for castling moves.
func (m Move) IsKingside() bool {
	return m.To.File() > m.From.File()
}

// isDoubleStep reports whether the move is a pawn advancing two ranks.
func (m Move) isDoubleStep() bool {
	d := m.To.Rank() - m.From.Rank()
	return m.Piece.Type == Pawn && (d == 2 || d == -2)
}

// sameAction compares the fields that identify a move for a player.
func (m Move) sameAction(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Piece == o.Piece && m.Promotion == o.Promotion
}

// WSMove is a move as submitted by a client.
type WSMove struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// Ply is a move recorded in the game history.
type Ply struct {
	Move     Move   `json:"move"`
	Captured Piece  `json:"captured,omitempty"`
	Notation string `json:"notation"`
}

// ParseMove reads "e2e4", "e2,e4" or "e7,e8,q" and looks it up in legal.
// A missing promotion letter selects the queen.
func ParseMove(text string, legal []Move) (Move, error) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(text), ",", ""))
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, text)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, text)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, text)
	}
	promo := NoPieceType
	if len(s) == 5 {
		promo = pieceTypeFromLetter(s[4])
		if promo == NoPieceType || promo == King || promo == Pawn {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, text)
		}
	}
	return findMove(legal, WSMove{From: from, To: to, Promotion: promo})
}

// findMove matches a client move against the legal list.
func findMove(legal []Move, want WSMove) (Move, error) {
	var promoting *Move
	for i, m := range legal {
		if m.From != want.From || m.To != want.To {
			continue
		}
		if m.Promotion == want.Promotion {
			return m, nil
		}
		if want.Promotion == NoPieceType && m.Promotion == Queen {
			promoting = &legal[i]
		}
	}
	if promoting != nil {
		return *promoting, nil
	}
	return Move{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, want.From, want.To)
}
