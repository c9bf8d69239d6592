package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Board holds the wall set, robot positions and the active target
type Board struct {
	robots    []Tile
	backup    []Tile
	walls     map[Wall]struct{}
	target    Tile
	hasTarget bool
	rng       *rand.Rand
}

// NewBoard creates an empty board. Call InitDefault to lay out the maze.
func NewBoard(rng *rand.Rand) *Board {
	return &Board{
		robots: []Tile{},
		backup: []Tile{},
		walls:  make(map[Wall]struct{}),
		rng:    rng,
	}
}

// AddWall marks the edge as blocked
func (b *Board) AddWall(w Wall) {
	b.walls[w] = struct{}{}
}

// InitDefault places the center box, boundary and corner walls
func (b *Board) InitDefault() {
	for _, spec := range centerWalls {
		b.AddWall(spec.Wall())
	}
	for _, spec := range boundaryWalls {
		b.AddWall(spec.Wall())
	}
	for _, corner := range cornerCatalog {
		for _, side := range corner.Sides {
			b.AddWall(corner.Tile.WallOn(side))
		}
	}
}

// Walls returns a copy of the wall set
func (b *Board) Walls() []Wall {
	out := make([]Wall, 0, len(b.walls))
	for w := range b.walls {
		out = append(out, w)
	}
	return out
}

// InitRobots places NumRobots robots on distinct random tiles outside the
// center box and snapshots the result as the backup positions.
func (b *Board) InitRobots() error {
	b.robots = b.robots[:0]

	occupied := make(map[Tile]bool, NumRobots)
	for attempts := 0; len(b.robots) < NumRobots; attempts++ {
		if attempts >= MaxPlacementAttempts {
			b.robots = b.robots[:0]
			return fmt.Errorf("%w: robot placement gave up after %d attempts", ErrInvariant, attempts)
		}

		tile := RandomTile(b.rng)
		if occupied[tile] || b.InMiddleBox(tile) {
			continue
		}
		occupied[tile] = true
		b.robots = append(b.robots, tile)
	}

	b.Snapshot()
	return nil
}

// Snapshot records the current robot positions as the backup
func (b *Board) Snapshot() {
	b.backup = append(b.backup[:0], b.robots...)
}

// Reset restores robots to the backup positions
func (b *Board) Reset() {
	b.robots = append(b.robots[:0], b.backup...)
}

// Clear removes all robots and the backup
func (b *Board) Clear() {
	b.robots = b.robots[:0]
	b.backup = b.backup[:0]
}

// Robots returns a copy of the live robot positions, indexed by robot id
func (b *Board) Robots() []Tile {
	out := make([]Tile, len(b.robots))
	copy(out, b.robots)
	return out
}

// BackupPositions returns a copy of the backup snapshot
func (b *Board) BackupPositions() []Tile {
	out := make([]Tile, len(b.backup))
	copy(out, b.backup)
	return out
}

// Robot returns the position of a single robot
func (b *Board) Robot(robot int) (Tile, error) {
	if robot < 0 || robot >= len(b.robots) {
		return Tile{}, fmt.Errorf("%w: %d", ErrRobotNotFound, robot)
	}
	return b.robots[robot], nil
}

// SetRobots replaces robot positions and the backup. Positions must be
// distinct and outside the center box.
func (b *Board) SetRobots(tiles []Tile) error {
	seen := make(map[Tile]bool, len(tiles))
	for _, t := range tiles {
		if !t.InBounds() || b.InMiddleBox(t) {
			return fmt.Errorf("%w: robot tile %s not placeable", ErrInvalidPlacement, t)
		}
		if seen[t] {
			return fmt.Errorf("%w: robot tile %s used twice", ErrInvalidPlacement, t)
		}
		seen[t] = true
	}
	b.robots = append(b.robots[:0], tiles...)
	b.Snapshot()
	return nil
}

// Target returns the active target and whether one has been chosen
func (b *Board) Target() (Tile, bool) {
	return b.target, b.hasTarget
}

// SetTarget sets the active target tile
func (b *Board) SetTarget(t Tile) {
	b.target = t
	b.hasTarget = true
}

// Clone returns an independent copy of the board that shares no state with b.
// The copy draws from its own time-seeded random source, so using it never
// advances the sequence of b.
func (b *Board) Clone() *Board {
	c := &Board{
		robots:    b.Robots(),
		backup:    b.BackupPositions(),
		walls:     make(map[Wall]struct{}, len(b.walls)),
		target:    b.target,
		hasTarget: b.hasTarget,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for w := range b.walls {
		c.walls[w] = struct{}{}
	}
	return c
}
