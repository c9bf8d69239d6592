package engine

import "fmt"

// HasWall reports whether the edge from t in direction d is blocked.
// The grid edge counts as a wall.
func (b *Board) HasWall(t Tile, d Direction) bool {
	other, ok := t.Towards(d)
	if !ok {
		return true
	}
	_, blocked := b.walls[NewWall(t, other)]
	return blocked
}

// HasRobot returns the index of the robot on t, if any
func (b *Board) HasRobot(t Tile) (int, bool) {
	for i, r := range b.robots {
		if r == t {
			return i, true
		}
	}
	return -1, false
}

// InMiddleBox reports whether t lies in the 2x2 center box
func (b *Board) InMiddleBox(t Tile) bool {
	return t.X > 6 && t.X < 9 && t.Y > 6 && t.Y < 9
}

// Slide computes where the robot stops when sliding in direction d.
// The second value is false when the robot cannot move at all that way.
func (b *Board) Slide(robot int, d Direction) (Tile, bool, error) {
	if _, err := b.Robot(robot); err != nil {
		return Tile{}, false, err
	}
	dest, ok := b.SlideWith(b.robots, robot, d)
	return dest, ok, nil
}

// SlideWith is Slide against hypothetical robot positions. The board's own
// robots are ignored. robot must index into robots.
func (b *Board) SlideWith(robots []Tile, robot int, d Direction) (Tile, bool) {
	start := robots[robot]
	final := start
	for {
		next, ok := final.Towards(d)
		if !ok {
			break
		}
		// checks apply to the edge about to be crossed and the tile about to be entered
		if b.HasWall(final, d) {
			break
		}
		if tileIn(robots, next) {
			break
		}
		if b.InMiddleBox(next) {
			break
		}
		final = next
	}

	if final == start {
		return Tile{}, false
	}
	return final, true
}

func tileIn(robots []Tile, t Tile) bool {
	for _, r := range robots {
		if r == t {
			return true
		}
	}
	return false
}

// CanMoveRobot returns the legal destinations of a robot, at most one per
// direction, in Up, Down, Left, Right order.
func (b *Board) CanMoveRobot(robot int) ([]Tile, error) {
	if _, err := b.Robot(robot); err != nil {
		return nil, err
	}

	possible := make([]Tile, 0, 4)
	for _, d := range AllDirections() {
		dest, ok, err := b.Slide(robot, d)
		if err != nil {
			return nil, err
		}
		if ok {
			possible = append(possible, dest)
		}
	}
	return possible, nil
}

// MoveRobot moves the robot to tile if that is one of its legal slide
// destinations. It reports whether the robot now stands on the target.
// On error the board is unchanged.
func (b *Board) MoveRobot(robot int, tile Tile) (bool, error) {
	possible, err := b.CanMoveRobot(robot)
	if err != nil {
		return false, err
	}

	legal := false
	for _, t := range possible {
		if t == tile {
			legal = true
			break
		}
	}
	if !legal {
		return false, fmt.Errorf("%w: robot %d cannot reach %s from %s", ErrInvalidMove, robot, tile, b.robots[robot])
	}

	b.robots[robot] = tile
	return b.hasTarget && tile == b.target, nil
}
