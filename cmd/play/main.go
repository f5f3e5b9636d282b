// Command play runs console games between two policies.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/benbeisheim/raychess-backend/internal/config"
	"github.com/benbeisheim/raychess-backend/internal/match"
	"github.com/benbeisheim/raychess-backend/internal/model"
	"github.com/benbeisheim/raychess-backend/internal/policy"
	"github.com/gofiber/fiber/v2/log"
)

var (
	p1Name   = flag.String("p1", "greedy", "first player: human, random or greedy")
	p2Name   = flag.String("p2", "random", "second player: human, random or greedy")
	games    = flag.Int("games", 1, "number of games")
	fen      = flag.String("fen", "", "start position (default: initial position)")
	seed     = flag.Int64("seed", 0, "random seed (default: time based)")
	maxPlies = flag.Int("max-plies", model.DefaultMaxPlies, "draw after this many plies")
	quiet    = flag.Bool("quiet", false, "print only the score")
	logLevel = flag.String("log-level", "warn", "trace, debug, info, warn or error")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := setLogLevel(*logLevel); err != nil {
		return err
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	p1, p2, err := newPolicies(*p1Name, *p2Name, *seed, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	runner := match.NewRunner(p1, p2)
	runner.MaxPlies = *maxPlies
	runner.Coin = rand.New(rand.NewSource(*seed))
	if *fen != "" {
		start, err := model.ParseFEN(*fen)
		if err != nil {
			return err
		}
		runner.Start = start
	}
	var out io.Writer = os.Stdout
	if *quiet {
		out = nil
	}
	runner.Out = out

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	score, err := runner.Series(ctx, *games)
	fmt.Println(score)
	return err
}

// newPolicies builds both seats. Two human seats share one reader so
// buffered input is not split between them.
func newPolicies(name1, name2 string, seed int64, in io.Reader, out io.Writer) (policy.Policy, policy.Policy, error) {
	var human *policy.Human
	build := func(name string, seed int64) (policy.Policy, error) {
		if name != "human" {
			return policy.New(name, seed)
		}
		if human == nil {
			human = policy.NewHuman(in, out)
		}
		return human, nil
	}
	p1, err := build(name1, seed)
	if err != nil {
		return nil, nil, err
	}
	p2, err := build(name2, seed+1)
	if err != nil {
		return nil, nil, err
	}
	return p1, p2, nil
}

func setLogLevel(name string) error {
	level, err := config.Config{LogLevel: name}.Level()
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}
