package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// farRobots keeps the other three robots out of row 3 and column 2
var farRobots = []Tile{{0, 0}, {15, 15}, {0, 15}}

func boardWithRobot(t *testing.T, first Tile, others ...Tile) *Board {
	t.Helper()
	board := newEmptyBoard()
	if len(others) == 0 {
		others = farRobots
	}
	require.NoError(t, board.SetRobots(append([]Tile{first}, others...)))
	return board
}

func TestSlide_OpenBoard(t *testing.T) {
	board := boardWithRobot(t, NewTile(2, 3))

	tests := []struct {
		dir      Direction
		expected Tile
	}{
		{Up, NewTile(2, 0)},
		{Down, NewTile(2, 15)},
		{Left, NewTile(0, 3)},
		{Right, NewTile(Size-1, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			dest, ok, err := board.Slide(0, tt.dir)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, dest)
		})
	}
}

func TestCanMoveRobot_OpenBoard(t *testing.T) {
	board := boardWithRobot(t, NewTile(2, 3))

	moves, err := board.CanMoveRobot(0)
	require.NoError(t, err)
	assert.Equal(t, []Tile{{2, 0}, {2, 15}, {0, 3}, {15, 3}}, moves)
}

func TestCanMoveRobot_WallDirectlyAhead(t *testing.T) {
	board := boardWithRobot(t, NewTile(5, 5))
	board.AddWall(NewTile(5, 5).WallOn(Right))

	_, ok, err := board.Slide(0, Right)
	require.NoError(t, err)
	assert.False(t, ok)

	moves, err := board.CanMoveRobot(0)
	require.NoError(t, err)
	assert.Len(t, moves, 3)
	for _, m := range moves {
		assert.False(t, m.Y == 5 && m.X > 5, "unexpected move to %s", m)
	}
}

func TestSlide_StopsBeforeWall(t *testing.T) {
	board := boardWithRobot(t, NewTile(2, 3))
	// stored from the far side of the edge
	board.AddWall(NewWall(NewTile(10, 3), NewTile(9, 3)))

	dest, ok, err := board.Slide(0, Right)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewTile(9, 3), dest)
}

func TestSlide_StopsBeforeRobot(t *testing.T) {
	board := boardWithRobot(t, NewTile(2, 3), NewTile(12, 3), NewTile(15, 15), NewTile(0, 15))

	dest, ok, err := board.Slide(0, Right)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewTile(11, 3), dest)

	// adjacent robot blocks entirely
	board2 := boardWithRobot(t, NewTile(2, 3), NewTile(3, 3), NewTile(15, 15), NewTile(0, 15))
	_, ok, err = board2.Slide(0, Right)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlide_StopsBeforeCenterBox(t *testing.T) {
	board := boardWithRobot(t, NewTile(7, 2))
	dest, ok, err := board.Slide(0, Down)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewTile(7, 6), dest)

	board = boardWithRobot(t, NewTile(14, 8))
	dest, ok, err = board.Slide(0, Left)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewTile(9, 8), dest)
}

func TestSlide_CornerOfGrid(t *testing.T) {
	board := boardWithRobot(t, NewTile(0, 0), NewTile(5, 5), NewTile(15, 15), NewTile(10, 12))

	moves, err := board.CanMoveRobot(0)
	require.NoError(t, err)
	assert.Equal(t, []Tile{{0, 15}, {15, 0}}, moves)
}

func TestCanMoveRobot_DefaultMaze(t *testing.T) {
	board := newDefaultBoard()
	require.NoError(t, board.SetRobots([]Tile{{0, 0}, {15, 15}, {14, 15}, {13, 15}}))

	moves, err := board.CanMoveRobot(0)
	require.NoError(t, err)
	// down stops at the left boundary wall below (0,6), right at the wall after (4,0)
	assert.Equal(t, []Tile{{0, 6}, {4, 0}}, moves)
}

func TestCanMoveRobot_IntoCornerPocket(t *testing.T) {
	board := newDefaultBoard()
	// (1,2) has walls up and left; approaching from the right stops on it
	require.NoError(t, board.SetRobots([]Tile{{8, 2}, {15, 15}, {14, 15}, {13, 15}}))

	dest, ok, err := board.Slide(0, Left)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, NewTile(1, 2), dest)
}

func TestCanMoveRobot_RobotNotFound(t *testing.T) {
	board := boardWithRobot(t, NewTile(2, 3))

	_, err := board.CanMoveRobot(4)
	assert.ErrorIs(t, err, ErrRobotNotFound)
	_, _, err = board.Slide(-1, Up)
	assert.ErrorIs(t, err, ErrRobotNotFound)
}

func TestMoveRobot_Validation(t *testing.T) {
	board := boardWithRobot(t, NewTile(2, 3))
	before := board.Robots()

	t.Run("destination not reachable", func(t *testing.T) {
		_, err := board.MoveRobot(0, NewTile(5, 3))
		assert.ErrorIs(t, err, ErrInvalidMove)
		assert.Equal(t, before, board.Robots())
	})

	t.Run("current tile is not a move", func(t *testing.T) {
		_, err := board.MoveRobot(0, NewTile(2, 3))
		assert.ErrorIs(t, err, ErrInvalidMove)
		assert.Equal(t, before, board.Robots())
	})

	t.Run("unknown robot", func(t *testing.T) {
		_, err := board.MoveRobot(9, NewTile(2, 0))
		assert.ErrorIs(t, err, ErrRobotNotFound)
		assert.Equal(t, before, board.Robots())
	})

	t.Run("legal move", func(t *testing.T) {
		reached, err := board.MoveRobot(0, NewTile(15, 3))
		require.NoError(t, err)
		assert.False(t, reached)
		pos, _ := board.Robot(0)
		assert.Equal(t, NewTile(15, 3), pos)
	})
}

func TestMoveRobot_ReachesTarget(t *testing.T) {
	board := boardWithRobot(t, NewTile(2, 3))
	board.SetTarget(NewTile(15, 3))

	reached, err := board.MoveRobot(0, NewTile(2, 0))
	require.NoError(t, err)
	assert.False(t, reached)

	reached, err = board.MoveRobot(0, NewTile(2, 15))
	require.NoError(t, err)
	assert.False(t, reached)

	board.Reset()
	reached, err = board.MoveRobot(0, NewTile(15, 3))
	require.NoError(t, err)
	assert.True(t, reached)
}
