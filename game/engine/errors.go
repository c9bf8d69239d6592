package engine

import "errors"

var (
	ErrInvalidMove      = errors.New("invalid move")
	ErrRobotNotFound    = errors.New("robot not found")
	ErrGameNotStarted   = errors.New("game not started")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidPlacement = errors.New("invalid robot placement")

	// ErrInvariant is returned when a bounded retry loop gives up.
	// It indicates a broken board, not bad input.
	ErrInvariant = errors.New("internal invariant violated")
)
