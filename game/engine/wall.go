package engine

import "fmt"

// Wall blocks the edge between two orthogonally adjacent tiles.
//
// The endpoints are stored in canonical order (A before B), so a wall built
// from either side of the edge is the same value and can be used directly as
// a map key.
type Wall struct {
	A Tile `json:"a"`
	B Tile `json:"b"`
}

// NewWall creates the wall between a and b regardless of argument order
func NewWall(a, b Tile) Wall {
	if b.Less(a) {
		a, b = b, a
	}
	return Wall{A: a, B: b}
}

func (w Wall) String() string {
	return fmt.Sprintf("%s-%s", w.A, w.B)
}
