package policy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/benbeisheim/raychess-backend/internal/model"
)

// Human asks for moves on a line based console. Input is "e2,e4",
// "e2e4" or "e7,e8,q"; "m" lists the legal moves.
type Human struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewHuman(in io.Reader, out io.Writer) *Human {
	return &Human{in: bufio.NewScanner(in), out: out}
}

func (h *Human) Name() string { return "human" }

func (h *Human) ChooseMove(pos model.Position) (model.Move, error) {
	moves, err := legalMoves(&pos)
	if err != nil {
		return model.Move{}, err
	}
	fmt.Fprint(h.out, pos.Board.Draw())
	fmt.Fprintln(h.out, pos.FEN())
	fmt.Fprintln(h.out)

	for {
		fmt.Fprintln(h.out, "Type your move:")
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return model.Move{}, err
			}
			return model.Move{}, io.EOF
		}
		line := strings.TrimSpace(h.in.Text())
		if line == "m" {
			for _, m := range moves {
				fmt.Fprintln(h.out, m)
			}
			continue
		}
		move, err := model.ParseMove(line, moves)
		switch {
		case err == nil:
			return move, nil
		case errors.Is(err, model.ErrIllegalMove):
			fmt.Fprintln(h.out, "Illegal move")
		default:
			fmt.Fprintln(h.out, "Check input")
		}
	}
}
