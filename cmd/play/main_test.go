package main

import (
	"io"
	"strings"
	"testing"

	"github.com/benbeisheim/raychess-backend/internal/model"
	"github.com/benbeisheim/raychess-backend/internal/policy"
	"github.com/benbeisheim/raychess-backend/internal/testutil"
)

func TestNewPoliciesHumansShareInput(t *testing.T) {
	in := strings.NewReader("e2e4\ne7e5\n")
	p1, p2, err := newPolicies("human", "human", 1, in, io.Discard)
	testutil.AssertNoError(t, err)

	m, err := p1.ChooseMove(model.StartingPosition())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m.String(), "e2e4")

	afterE4, err := model.ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3")
	testutil.AssertNoError(t, err)
	m, err = p2.ChooseMove(afterE4)
	testutil.AssertNoError(t, err, "second seat reads the next line")
	testutil.AssertEqual(t, m.String(), "e7e5")
}

func TestNewPolicies(t *testing.T) {
	p1, p2, err := newPolicies("greedy", "random", 1, strings.NewReader(""), io.Discard)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, p1.Name(), "greedy")
	testutil.AssertEqual(t, p2.Name(), "random")

	_, _, err = newPolicies("greedy", "oracle", 1, strings.NewReader(""), io.Discard)
	testutil.AssertErrorIs(t, err, policy.ErrUnknownPolicy)
}
