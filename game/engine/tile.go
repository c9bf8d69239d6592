package engine

import (
	"fmt"
	"math/rand"
	"strings"
)

const (
	// Size is the width and height of the board
	Size = 16

	// NumRobots is the number of robots placed at game start
	NumRobots = 4

	// Bounds on the rejection-sampling loops
	MaxPlacementAttempts = 10000
	MaxTargetAttempts    = 10000
)

// Tile is a single cell of the grid. (0,0) is the top left corner.
type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewTile creates a tile at the given coordinates
func NewTile(x, y int) Tile {
	return Tile{X: x, Y: y}
}

// RandomTile draws both coordinates uniformly from [0, Size).
// Occupied tiles and the center box are not excluded.
func RandomTile(r *rand.Rand) Tile {
	return Tile{X: r.Intn(Size), Y: r.Intn(Size)}
}

// InBounds reports whether the tile lies on the board
func (t Tile) InBounds() bool {
	return t.X >= 0 && t.X < Size && t.Y >= 0 && t.Y < Size
}

// Less orders tiles by X, then Y
func (t Tile) Less(other Tile) bool {
	if t.X != other.X {
		return t.X < other.X
	}
	return t.Y < other.Y
}

// Towards returns the neighboring tile in the given direction.
// The second value is false when the step would leave the grid.
func (t Tile) Towards(d Direction) (Tile, bool) {
	dx, dy := d.Delta()
	next := Tile{X: t.X + dx, Y: t.Y + dy}
	if !next.InBounds() {
		return Tile{}, false
	}
	return next, true
}

// WallOn builds the wall between t and its neighbor in direction d.
// It must not be called on a grid edge.
func (t Tile) WallOn(d Direction) Wall {
	other, ok := t.Towards(d)
	if !ok {
		panic(fmt.Sprintf("engine: no neighbor %s of %s", d, t))
	}
	return NewWall(t, other)
}

func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

// Direction is one of the four slide directions
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// AllDirections returns the directions in the order they are evaluated
func AllDirections() [4]Direction {
	return [4]Direction{Up, Down, Left, Right}
}

// Delta returns the unit coordinate change for the direction
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection converts "up", "down", "left" or "right" (any case) to a Direction
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MarshalText encodes the direction as its lowercase name
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a lowercase direction name
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
