package model

import (
	"fmt"
	"strings"
)

type PieceType uint8

const (
	NoPieceType PieceType = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

var pieceTypeNames = [...]string{"", "king", "queen", "rook", "bishop", "knight", "pawn"}

func (p PieceType) String() string {
	if int(p) < len(pieceTypeNames) {
		return pieceTypeNames[p]
	}
	return ""
}

// letter is the upper case symbol of the piece type, 'P' for pawns.
func (p PieceType) letter() byte {
	switch p {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Pawn:
		return 'P'
	}
	return ' '
}

// getPieceNotation returns the letter used in move notation. Pawns have none.
func (p PieceType) getPieceNotation() string {
	if p == Pawn || p == NoPieceType {
		return ""
	}
	return string(p.letter())
}

func pieceTypeFromLetter(c byte) PieceType {
	switch lower(c) {
	case 'k':
		return King
	case 'q':
		return Queen
	case 'r':
		return Rook
	case 'b':
		return Bishop
	case 'n':
		return Knight
	case 'p':
		return Pawn
	}
	return NoPieceType
}

func (p PieceType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PieceType) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	if s == "" {
		*p = NoPieceType
		return nil
	}
	for i, name := range pieceTypeNames {
		if i > 0 && name == s {
			*p = PieceType(i)
			return nil
		}
	}
	if len(s) == 1 {
		if t := pieceTypeFromLetter(s[0]); t != NoPieceType {
			*p = t
			return nil
		}
	}
	return fmt.Errorf("unknown piece type %q", text)
}

type Side uint8

const (
	White Side = iota
	Black
)

func (s Side) Other() Side {
	return s ^ 1
}

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

// forward is the rank direction pawns of the side move in.
func (s Side) forward() int {
	if s == Black {
		return -1
	}
	return 1
}

// homeRank is the rank of the side's king and rooks at the start.
func (s Side) homeRank() int {
	if s == Black {
		return 7
	}
	return 0
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "white", "w":
		*s = White
	case "black", "b":
		*s = Black
	default:
		return fmt.Errorf("unknown side %q", text)
	}
	return nil
}

// Piece is a piece type owned by a side. The zero value is an empty cell.
type Piece struct {
	Type PieceType
	Side Side
}

// NoPiece is the empty cell marker.
var NoPiece = Piece{}

func NewPiece(t PieceType, s Side) Piece {
	return Piece{Type: t, Side: s}
}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

// Owner reports the side of the piece; ok is false for an empty cell.
func (p Piece) Owner() (side Side, ok bool) {
	if p.IsEmpty() {
		return White, false
	}
	return p.Side, true
}

// Symbol returns the FEN letter of the piece, upper case for White.
func (p Piece) Symbol() byte {
	if p.IsEmpty() {
		return ' '
	}
	c := p.Type.letter()
	if p.Side == Black {
		c = lower(c)
	}
	return c
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return ""
	}
	return string(p.Symbol())
}

// PieceFromSymbol parses a FEN letter.
func PieceFromSymbol(c byte) (Piece, bool) {
	t := pieceTypeFromLetter(c)
	if t == NoPieceType {
		return NoPiece, false
	}
	side := White
	if c >= 'a' && c <= 'z' {
		side = Black
	}
	return Piece{Type: t, Side: side}, true
}

func (p Piece) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Piece) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = NoPiece
		return nil
	}
	piece, ok := PieceFromSymbol(text[0])
	if len(text) != 1 || !ok {
		return fmt.Errorf("unknown piece symbol %q", text)
	}
	*p = piece
	return nil
}

// Board is a mailbox of 64 cells indexed by Square.
type Board [64]Piece

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func newBoard() Board {
	var b Board
	for file, t := range backRank {
		b[SquareAt(file, 0)] = Piece{Type: t, Side: White}
		b[SquareAt(file, 1)] = Piece{Type: Pawn, Side: White}
		b[SquareAt(file, 6)] = Piece{Type: Pawn, Side: Black}
		b[SquareAt(file, 7)] = Piece{Type: t, Side: Black}
	}
	return b
}

// at returns the piece on (file, rank), NoPiece off the board.
func (b *Board) at(file, rank int) Piece {
	if !onBoard(file, rank) {
		return NoPiece
	}
	return b[SquareAt(file, rank)]
}

// isEmptyAt treats squares off the board as occupied.
func (b *Board) isEmptyAt(file, rank int) bool {
	return onBoard(file, rank) && b[SquareAt(file, rank)].IsEmpty()
}

// FindKing returns the square of the side's king, or NoSquare.
func (b *Board) FindKing(side Side) Square {
	king := Piece{Type: King, Side: side}
	for sq := Square(0); sq < 64; sq++ {
		if b[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// Pieces lists every piece on the board in square order.
func (b *Board) Pieces() []Piece {
	pieces := make([]Piece, 0, 32)
	for _, p := range b {
		if !p.IsEmpty() {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// Draw renders the board from White's side, rank 8 first.
func (b *Board) Draw() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			p := b[SquareAt(file, rank)]
			if p.IsEmpty() {
				sb.WriteString("·")
			} else {
				sb.WriteByte(p.Symbol())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
