package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/robot-server/game/engine"
	"github.com/wricardo/robot-server/game/solver"
)

func boardCommand() *cli.Command {
	return &cli.Command{
		Name:  "board",
		Usage: "start a game locally and print its board",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "seed",
				Usage: "random seed for robots and targets (0 picks one from the clock)",
			},
			&cli.BoolFlag{
				Name:  "solve",
				Usage: "also print the shortest solution of the first round",
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Value: solver.DefaultMaxDepth,
				Usage: "longest solution to search for",
			},
		},
		Action: runBoard,
	}
}

func runBoard(ctx context.Context, cmd *cli.Command) error {
	seed := int64(cmd.Int("seed"))
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return printBoard(ctx, writerOf(cmd), seed, cmd.Bool("solve"), int(cmd.Int("max-depth")))
}

func writerOf(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// printBoard starts a game from seed and writes the board, the robot
// positions and the target, followed by a solution when solve is set.
func printBoard(ctx context.Context, w io.Writer, seed int64, solve bool, maxDepth int) error {
	game := engine.NewGame(engine.WithRand(rand.New(rand.NewSource(seed))))
	if err := game.StartGame(); err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	state := game.State()

	fmt.Fprintf(w, "Seed: %d\n", seed)
	fmt.Fprint(w, game.Board().Render())
	for i, r := range state.Robots {
		fmt.Fprintf(w, "Robot %d: %s\n", i, r)
	}
	if state.Target != nil {
		fmt.Fprintf(w, "Target: %s\n", *state.Target)
	}

	if !solve {
		return nil
	}

	started := time.Now()
	sol, err := solver.Solve(ctx, game.Board(), solver.Options{MaxDepth: maxDepth})
	switch {
	case errors.Is(err, solver.ErrNoSolution):
		fmt.Fprintf(w, "No solution within %d moves\n", maxDepth)
		return nil
	case err != nil:
		return err
	}

	log.WithFields(log.Fields{"seed": seed, "moves": len(sol.Moves), "explored": sol.Explored, "elapsed": time.Since(started)}).Debug("solved")
	fmt.Fprintf(w, "Solution (%d moves):\n", len(sol.Moves))
	for i, m := range sol.Moves {
		fmt.Fprintf(w, "%d. %s\n", i+1, m)
	}
	return nil
}
