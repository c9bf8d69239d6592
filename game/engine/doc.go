// Package engine provides the core game logic for the robot puzzle.
//
// The engine package implements:
//   - A fixed 16x16 maze of walls with a forbidden 2x2 center box
//   - Robots that slide until blocked by a wall, another robot, the box or the grid edge
//   - Random robot placement and round target selection
//   - Round lifecycle with reset to the round's starting positions
//
// Core Types:
//
// Tile and Direction address the grid. Wall is an edge between two adjacent
// tiles, canonicalized so either endpoint order yields the same value.
// Board owns walls, robots and the active target and computes legal slides.
// Game owns one Board plus its players and drives rounds.
//
// Usage:
//
//	game := engine.NewGame()
//	if err := game.StartGame(); err != nil {
//		log.Fatal(err)
//	}
//
//	moves, err := game.CanMoveRobot(0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	reached, err := game.MoveRobot(0, moves[0])
//
// Concurrency:
//
// Nothing in this package locks. Callers serialize all operations on a given
// Game; distinct games share no state.
package engine
