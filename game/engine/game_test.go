package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededGame(seed int64) *Game {
	return NewGame(WithRand(rand.New(rand.NewSource(seed))))
}

func TestNewGame(t *testing.T) {
	game := NewGame()

	assert.Equal(t, NotStarted, game.Status())
	assert.Equal(t, 0, game.Round())
	assert.Empty(t, game.Board().Robots())
	assert.Len(t, game.Board().Walls(), 50)

	state := game.State()
	assert.Nil(t, state.Target)
	assert.Empty(t, state.Players)
}

func TestGame_NotStarted(t *testing.T) {
	game := newSeededGame(1)

	_, err := game.CanMoveRobot(0)
	assert.ErrorIs(t, err, ErrGameNotStarted)

	_, err = game.MoveRobot(0, NewTile(0, 0))
	assert.ErrorIs(t, err, ErrGameNotStarted)

	_, _, err = game.MoveRobotDirection(0, Up)
	assert.ErrorIs(t, err, ErrGameNotStarted)

	assert.ErrorIs(t, game.StartNextRound(), ErrGameNotStarted)
	assert.ErrorIs(t, game.Reset(), ErrGameNotStarted)
}

func TestGame_StartGame(t *testing.T) {
	game := newSeededGame(7)
	require.NoError(t, game.StartGame())

	assert.Equal(t, RoundInProgress, game.Status())
	assert.Equal(t, 1, game.Round())

	state := game.State()
	require.Len(t, state.Robots, NumRobots)
	require.NotNil(t, state.Target)
	assert.True(t, IsCornerTile(*state.Target))
	assert.Equal(t, state.Robots, state.Backup)
}

func TestGame_TargetSelection(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		game := newSeededGame(seed)
		require.NoError(t, game.StartGame())

		targets := make(map[Tile]bool)
		for i := 0; i < 50; i++ {
			require.NoError(t, game.StartNextRound())

			target, ok := game.Board().Target()
			require.True(t, ok)
			assert.True(t, IsCornerTile(target), "target %s not in catalog", target)
			_, occupied := game.Board().HasRobot(target)
			assert.False(t, occupied, "target %s holds a robot", target)
			targets[target] = true
		}
		assert.Greater(t, len(targets), 1, "seed %d: target never changed", seed)
	}
}

func TestGame_TargetSkipsOccupiedTile(t *testing.T) {
	game := NewGame(WithRand(rand.New(zeroSource{})))
	// every draw picks the first catalog tile, which is occupied
	require.NoError(t, game.Board().SetRobots([]Tile{{1, 2}, {0, 0}, {15, 15}, {0, 15}}))
	game.status = RoundInProgress

	err := game.StartNextRound()
	assert.ErrorIs(t, err, ErrInvariant)

	require.NoError(t, game.Board().SetRobots([]Tile{{3, 3}, {0, 0}, {15, 15}, {0, 15}}))
	require.NoError(t, game.StartNextRound())
	target, _ := game.Board().Target()
	assert.Equal(t, NewTile(1, 2), target)
}

// every robot here has at least one legal move on the default maze
var openRobots = []Tile{{2, 3}, {0, 0}, {15, 15}, {0, 15}}

func firstLegalMove(t *testing.T, game *Game, robot int) Tile {
	t.Helper()
	moves, err := game.CanMoveRobot(robot)
	require.NoError(t, err)
	require.NotEmpty(t, moves)
	return moves[0]
}

func TestGame_ResetIdempotent(t *testing.T) {
	game := newSeededGame(3)
	require.NoError(t, game.StartGame())
	require.NoError(t, game.Board().SetRobots(openRobots))
	backup := game.Board().BackupPositions()

	for robot := 0; robot < NumRobots; robot++ {
		_, err := game.MoveRobot(robot, firstLegalMove(t, game, robot))
		require.NoError(t, err)
	}
	assert.Equal(t, NumRobots, game.State().MovesCount)

	require.NoError(t, game.Reset())
	assert.Equal(t, backup, game.Board().Robots())
	assert.Equal(t, 0, game.State().MovesCount)

	require.NoError(t, game.Reset())
	assert.Equal(t, backup, game.Board().Robots())
}

func TestGame_NextRoundSnapshotsPositions(t *testing.T) {
	game := newSeededGame(5)
	require.NoError(t, game.StartGame())
	require.NoError(t, game.Board().SetRobots(openRobots))

	_, err := game.MoveRobot(0, firstLegalMove(t, game, 0))
	require.NoError(t, err)
	moved := game.Board().Robots()

	require.NoError(t, game.StartNextRound())
	assert.Equal(t, 2, game.Round())
	assert.Equal(t, moved, game.Board().BackupPositions())

	require.NoError(t, game.Reset())
	assert.Equal(t, moved, game.Board().Robots())
}

func TestGame_MoveRobotInvalid(t *testing.T) {
	game := newSeededGame(11)
	require.NoError(t, game.StartGame())
	before := game.Board().Robots()

	// a robot's own tile is never a legal destination
	_, err := game.MoveRobot(1, before[1])
	assert.ErrorIs(t, err, ErrInvalidMove)
	assert.Equal(t, before, game.Board().Robots())
	assert.Equal(t, 0, game.State().MovesCount)

	_, err = game.MoveRobot(NumRobots, NewTile(0, 0))
	assert.ErrorIs(t, err, ErrRobotNotFound)
}

func TestGame_MoveRobotDirection(t *testing.T) {
	game := newSeededGame(1)
	require.NoError(t, game.StartGame())
	require.NoError(t, game.Board().SetRobots(openRobots))

	dest, reached, err := game.MoveRobotDirection(0, Right)
	require.NoError(t, err)
	assert.Equal(t, NewTile(15, 3), dest)
	assert.False(t, reached)
	assert.Equal(t, 1, game.State().MovesCount)

	// (15,3) sits on the right edge
	_, _, err = game.MoveRobotDirection(0, Right)
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestGame_Solved(t *testing.T) {
	game := newSeededGame(1)
	require.NoError(t, game.StartGame())
	require.NoError(t, game.Board().SetRobots([]Tile{{8, 2}, {15, 15}, {14, 15}, {13, 15}}))
	game.Board().SetTarget(NewTile(1, 2))

	reached, err := game.MoveRobot(0, NewTile(1, 2))
	require.NoError(t, err)
	assert.True(t, reached)
	assert.True(t, game.State().Solved)

	require.NoError(t, game.Reset())
	assert.False(t, game.State().Solved)
}

func TestGame_AddPlayer(t *testing.T) {
	game := NewGame()
	p := Player{ID: "abc", Name: "ada", Origin: "127.0.0.1", JoinedAt: time.Now()}

	game.AddPlayer(p)
	game.AddPlayer(p)

	assert.Len(t, game.Players(), 2)
	assert.Equal(t, p, game.Players()[1])
}

func TestGame_ClearKeepsPlayers(t *testing.T) {
	game := newSeededGame(2)
	game.AddPlayer(Player{ID: "p1"})
	require.NoError(t, game.StartGame())

	game.Clear()
	assert.Equal(t, NotStarted, game.Status())
	assert.Empty(t, game.Board().Robots())
	assert.Len(t, game.Players(), 1)
	assert.Nil(t, game.State().Target)
}
