// Package solver finds the shortest sequence of robot moves that brings any
// robot onto the board's target.
//
// The search is a breadth-first walk over robot configurations, so the first
// solution found uses the fewest moves. It is bounded by depth and by the
// number of configurations visited.
//
//	sol, err := solver.Solve(ctx, game.Board(), solver.Options{MaxDepth: 6})
//	if errors.Is(err, solver.ErrNoSolution) {
//		// nothing within 6 moves
//	}
package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/robot-server/game/engine"
)

var (
	ErrNoSolution = errors.New("no solution within search bounds")
	ErrNoTarget   = errors.New("board has no target")
	ErrNoRobots   = errors.New("board has no robots")
)

const (
	DefaultMaxDepth  = 6
	DefaultMaxStates = 500000

	// how often the context is checked, in expanded states
	ctxCheckEvery = 1024
)

// Options bound the search. Zero values select the defaults.
type Options struct {
	MaxDepth  int
	MaxStates int
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxStates <= 0 {
		o.MaxStates = DefaultMaxStates
	}
	return o
}

// Move is one slide of one robot
type Move struct {
	Robot     int              `json:"robot"`
	Direction engine.Direction `json:"direction"`
	From      engine.Tile      `json:"from"`
	To        engine.Tile      `json:"to"`
}

func (m Move) String() string {
	return fmt.Sprintf("robot %d %s %s->%s", m.Robot, m.Direction, m.From, m.To)
}

// Solution is a shortest move sequence. Moves is empty when a robot already
// stands on the target.
type Solution struct {
	Moves    []Move `json:"moves"`
	Explored int    `json:"explored"`
}

type positions [engine.NumRobots]engine.Tile

type node struct {
	robots positions
	parent *node
	move   Move
	depth  int
}

func (n *node) path() []Move {
	moves := make([]Move, n.depth)
	for cur := n; cur.parent != nil; cur = cur.parent {
		moves[cur.depth-1] = cur.move
	}
	return moves
}

func reached(p positions, target engine.Tile) bool {
	for _, t := range p {
		if t == target {
			return true
		}
	}
	return false
}

// Solve searches from the board's current robot positions. The board is
// only read.
func Solve(ctx context.Context, board *engine.Board, opts Options) (*Solution, error) {
	opts = opts.withDefaults()

	target, ok := board.Target()
	if !ok {
		return nil, ErrNoTarget
	}
	robots := board.Robots()
	if len(robots) != engine.NumRobots {
		return nil, ErrNoRobots
	}

	var start positions
	copy(start[:], robots)
	root := &node{robots: start}
	if reached(start, target) {
		return &Solution{Moves: []Move{}, Explored: 1}, nil
	}

	visited := map[positions]struct{}{start: {}}
	queue := []*node{root}
	expanded := 0

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= opts.MaxDepth {
			continue
		}

		expanded++
		if expanded%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		for robot := 0; robot < engine.NumRobots; robot++ {
			for _, d := range engine.AllDirections() {
				dest, moved := board.SlideWith(current.robots[:], robot, d)
				if !moved {
					continue
				}

				next := current.robots
				next[robot] = dest
				if _, seen := visited[next]; seen {
					continue
				}
				visited[next] = struct{}{}

				child := &node{
					robots: next,
					parent: current,
					move:   Move{Robot: robot, Direction: d, From: current.robots[robot], To: dest},
					depth:  current.depth + 1,
				}
				if dest == target {
					return &Solution{Moves: child.path(), Explored: len(visited)}, nil
				}
				if len(visited) >= opts.MaxStates {
					return nil, fmt.Errorf("%w: visited %d states", ErrNoSolution, len(visited))
				}
				queue = append(queue, child)
			}
		}
	}

	return nil, fmt.Errorf("%w: nothing within %d moves", ErrNoSolution, opts.MaxDepth)
}
