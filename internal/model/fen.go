package model

import (
	"fmt"
	"strconv"
	"strings"
)

// InitialFEN is the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is everything the move generator needs to know about a game.
type Position struct {
	Board    Board
	Turn     Side
	Castling CastlingRights
	Previous *Move
}

// StartingPosition returns the standard initial position.
func StartingPosition() Position {
	return Position{Board: newBoard(), Turn: White, Castling: AllCastling}
}

// LegalMoves generates the moves of the side to move. The position's board
// is used as scratch space and left unchanged.
func (p *Position) LegalMoves() ([]Move, []Piece) {
	return p.Board.LegalMoves(p.Turn, p.Previous, p.Castling)
}

// ParseFEN reads a FEN-like position. The board, side and castling fields
// are required. An en passant target, when present, becomes a synthesized
// previous double step; move counters are ignored.
func ParseFEN(text string) (Position, error) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		return Position{}, fmt.Errorf("%w: want at least 3 fields, got %d", ErrInvalidFEN, len(fields))
	}
	var pos Position
	if err := parsePiecePlacement(&pos.Board, fields[0]); err != nil {
		return Position{}, err
	}
	switch fields[1] {
	case "w":
		pos.Turn = White
	case "b":
		pos.Turn = Black
	default:
		return Position{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}
	rights, err := ParseCastlingRights(fields[2])
	if err != nil {
		return Position{}, err
	}
	pos.Castling = rights
	if len(fields) > 3 && fields[3] != "-" {
		prev, err := previousFromTarget(&pos.Board, fields[3], pos.Turn)
		if err != nil {
			return Position{}, err
		}
		pos.Previous = prev
	}
	return pos, nil
}

func parsePiecePlacement(b *Board, field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, text := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(text); j++ {
			c := text[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece, ok := PieceFromSymbol(c)
			if !ok {
				return fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, c)
			}
			if file > 7 {
				return fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			b[SquareAt(file, rank)] = piece
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}
	return nil
}

// previousFromTarget rebuilds the double step that produced an en passant
// target square.
func previousFromTarget(b *Board, field string, turn Side) (*Move, error) {
	target, err := ParseSquare(field)
	if err != nil {
		return nil, fmt.Errorf("%w: en passant %q", ErrInvalidFEN, field)
	}
	mover := turn.Other()
	passRank := 2
	if mover == Black {
		passRank = 5
	}
	if target.Rank() != passRank {
		return nil, fmt.Errorf("%w: en passant square %s on wrong rank", ErrInvalidFEN, field)
	}
	dir := mover.forward()
	from := SquareAt(target.File(), target.Rank()-dir)
	to := SquareAt(target.File(), target.Rank()+dir)
	pawn := Piece{Type: Pawn, Side: mover}
	if b[to] != pawn {
		return nil, fmt.Errorf("%w: no pawn behind en passant square %s", ErrInvalidFEN, field)
	}
	if !b[target].IsEmpty() || !b[from].IsEmpty() {
		return nil, fmt.Errorf("%w: en passant square %s is not a passed square", ErrInvalidFEN, field)
	}
	return &Move{From: from, To: to, Piece: pawn}, nil
}

// boardFEN writes the piece placement field.
func (b *Board) boardFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		spaces := 0
		for file := 0; file < 8; file++ {
			p := b[SquareAt(file, rank)]
			if p.IsEmpty() {
				spaces++
				continue
			}
			if spaces > 0 {
				sb.WriteString(strconv.Itoa(spaces))
				spaces = 0
			}
			sb.WriteByte(p.Symbol())
		}
		if spaces > 0 {
			sb.WriteString(strconv.Itoa(spaces))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

func sideLetter(s Side) string {
	if s == Black {
		return "b"
	}
	return "w"
}

// FEN returns the board, side and castling fields.
func (p *Position) FEN() string {
	return p.Board.boardFEN() + " " + sideLetter(p.Turn) + " " + p.Castling.String()
}

// FullFEN returns a six field FEN with the en passant square taken from
// the previous move and zeroed move counters.
func (p *Position) FullFEN() string {
	ep := "-"
	if p.Previous != nil && p.Previous.isDoubleStep() {
		ep = SquareAt(p.Previous.To.File(), (p.Previous.From.Rank()+p.Previous.To.Rank())/2).String()
	}
	return p.FEN() + " " + ep + " 0 1"
}
