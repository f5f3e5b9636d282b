package model

import (
	"fmt"
	"strings"
)

// Square is a linear board index, rank*8+file.
type Square int8

// NoSquare marks the absence of a square.
const NoSquare Square = -1

const files = "abcdefgh"

// SquareAt converts a (file, rank) pair to a square. Both must be in [0,8).
func SquareAt(file, rank int) Square {
	return Square(rank*8 + file)
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func (s Square) File() int {
	return int(s) % 8
}

func (s Square) Rank() int {
	return int(s) / 8
}

// Coords returns the (file, rank) pair of the square.
func (s Square) Coords() (int, int) {
	return s.File(), s.Rank()
}

func (s Square) Valid() bool {
	return s >= 0 && s < 64
}

// String returns the algebraic name of the square, e.g. "e4".
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", files[s.File()], s.Rank()+1)
}

// ParseSquare reads algebraic notation. Upper case files are accepted.
func ParseSquare(text string) (Square, error) {
	if len(text) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, text)
	}
	file := strings.IndexByte(files, lower(text[0]))
	rank := int(text[1] - '1')
	if file < 0 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, text)
	}
	return SquareAt(file, rank), nil
}

func (s Square) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Square) UnmarshalText(text []byte) error {
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
