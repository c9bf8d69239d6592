package engine

import (
	"fmt"
	"strings"
)

// Render draws the board as text. Robots are shown by index, the target as
// T, the center box as x. Walls touching the box are implied and not drawn.
func (b *Board) Render() string {
	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4 5 6 7 8 9 A B C D E F\n")

	for y := 0; y < Size; y++ {
		fmt.Fprintf(&sb, "%X ", y)
		for x := 0; x < Size; x++ {
			t := Tile{X: x, Y: y}
			sb.WriteByte(b.glyph(t))
			if x == Size-1 {
				break
			}
			if b.drawnWall(t, Right) {
				sb.WriteByte('|')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) glyph(t Tile) byte {
	if idx, ok := b.HasRobot(t); ok {
		return byte('0' + idx)
	}
	if target, ok := b.Target(); ok && target == t {
		return 'T'
	}
	if b.InMiddleBox(t) {
		return 'x'
	}
	if t.Y < Size-1 && b.drawnWall(t, Down) {
		return '_'
	}
	return '.'
}

// drawnWall is HasWall without the grid edge and without box walls
func (b *Board) drawnWall(t Tile, d Direction) bool {
	other, ok := t.Towards(d)
	if !ok || b.InMiddleBox(t) || b.InMiddleBox(other) {
		return false
	}
	return b.HasWall(t, d)
}
