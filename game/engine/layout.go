package engine

// Static maze layout, as printed by Board.Render. (0,0) is the top left
// corner; `|` marks a wall on the right of a tile and `_` a wall below it.
// The center box (x) is enclosed by eight walls that are not drawn.
//
//	  0 1 2 3 4 5 6 7 8 9 A B C D E F
//	0 . . . . .|. . . . . . .|. _ . .
//	1 . _ . . . . _|. . . . . .|. . .
//	2 .|. . . . . . . . _|. . . . . .
//	3 . . . . . . . . . . . . . . . .
//	4 . . . . . . _ . . . . . . . . _
//	5 . . . . . . .|. . . . _ . .|_ .
//	6 _ . .|_ . . . . . . . .|. . . .
//	7 . . . . . . . x x . . . _ . . .
//	8 . . _ . .|_ . x x . . .|. . . .
//	9 . .|. . . . . . . .|_ . . . . .
//	A . . . . . . . . . . . . . . . _
//	B _ . . . . . . . . _|. . . . _ .
//	C . . . . _ . . . . . . . . . .|.
//	D . . . . .|. . . . . . . . _ . .
//	E . _|. . . . . . . . . . .|. . .
//	F . . . . . . .|. . . .|. . . . .

// WallSpec is a single wall segment anchored on a tile
type WallSpec struct {
	Tile      Tile      `json:"tile"`
	Direction Direction `json:"direction"`
}

// Wall returns the wall described by the spec
func (s WallSpec) Wall() Wall {
	return s.Tile.WallOn(s.Direction)
}

// Corner is an L-shaped obstacle: two walls meeting at one tile.
// Corner tiles are also the pool of round targets.
type Corner struct {
	Tile  Tile         `json:"tile"`
	Sides [2]Direction `json:"sides"`
}

var centerWalls = [8]WallSpec{
	{Tile{6, 7}, Right},
	{Tile{6, 8}, Right},
	{Tile{8, 7}, Right},
	{Tile{8, 8}, Right},
	{Tile{7, 6}, Down},
	{Tile{8, 6}, Down},
	{Tile{7, 8}, Down},
	{Tile{8, 8}, Down},
}

var boundaryWalls = [8]WallSpec{
	// top
	{Tile{4, 0}, Right},
	{Tile{Size - 4, 0}, Left},
	// bottom
	{Tile{6, 15}, Right},
	{Tile{Size - 5, 15}, Left},
	// left
	{Tile{0, 6}, Down},
	{Tile{0, Size - 4}, Up},
	// right
	{Tile{15, 4}, Down},
	{Tile{15, Size - 5}, Up},
}

var cornerCatalog = [17]Corner{
	{Tile{1, 2}, [2]Direction{Up, Left}},
	{Tile{12, 8}, [2]Direction{Up, Left}},
	{Tile{2, 9}, [2]Direction{Up, Left}},
	{Tile{13, 14}, [2]Direction{Up, Left}},
	{Tile{13, 1}, [2]Direction{Up, Left}},
	{Tile{6, 5}, [2]Direction{Up, Right}},
	{Tile{4, 13}, [2]Direction{Up, Right}},
	{Tile{14, 12}, [2]Direction{Up, Right}},
	{Tile{11, 6}, [2]Direction{Up, Right}},
	{Tile{6, 1}, [2]Direction{Down, Right}},
	{Tile{9, 2}, [2]Direction{Down, Right}},
	{Tile{9, 11}, [2]Direction{Down, Right}},
	{Tile{1, 14}, [2]Direction{Down, Right}},
	{Tile{3, 6}, [2]Direction{Down, Left}},
	{Tile{14, 5}, [2]Direction{Down, Left}},
	{Tile{10, 9}, [2]Direction{Down, Left}},
	{Tile{5, 8}, [2]Direction{Down, Left}},
}

// CenterWalls returns the walls enclosing the 2x2 center box
func CenterWalls() []WallSpec {
	out := make([]WallSpec, len(centerWalls))
	copy(out, centerWalls[:])
	return out
}

// BoundaryWalls returns the two walls placed along each board edge
func BoundaryWalls() []WallSpec {
	out := make([]WallSpec, len(boundaryWalls))
	copy(out, boundaryWalls[:])
	return out
}

// CornerCatalog returns the L-shaped obstacles in catalog order
func CornerCatalog() []Corner {
	out := make([]Corner, len(cornerCatalog))
	copy(out, cornerCatalog[:])
	return out
}

// IsCornerTile reports whether t is one of the catalog tiles
func IsCornerTile(t Tile) bool {
	for _, c := range cornerCatalog {
		if c.Tile == t {
			return true
		}
	}
	return false
}
