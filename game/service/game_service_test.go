package service_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/robot-server/game/engine"
	"github.com/wricardo/robot-server/game/service"
)

var errMockNotFound = errors.New("session not found")

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	mu       sync.Mutex
	sessions map[string]*service.Session
	seed     int64
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	m.seed++
	game := engine.NewGame(engine.WithRand(rand.New(rand.NewSource(m.seed))))
	sess := service.NewSession(id, game)
	m.sessions[id] = sess
	return sess, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[id]
	if !exists {
		return nil, errMockNotFound
	}
	return sess, nil
}

func (m *MockSessionManager) List() []*service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return errMockNotFound
	}
	delete(m.sessions, id)
	return nil
}

func newTestService(t *testing.T) (service.GameService, *MockSessionManager) {
	t.Helper()
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions), sessions
}

// startedGame creates and starts a game, then pins the robots to known tiles
func startedGame(t *testing.T, svc service.GameService, sessions *MockSessionManager, robots []engine.Tile) string {
	t.Helper()
	ctx := context.Background()

	info, err := svc.CreateGame(ctx)
	require.NoError(t, err)
	_, err = svc.StartGame(ctx, info.ID)
	require.NoError(t, err)

	sess, err := sessions.Get(info.ID)
	require.NoError(t, err)
	require.NoError(t, sess.Game.Board().SetRobots(robots))
	return info.ID
}

var pinned = []engine.Tile{{X: 2, Y: 3}, {X: 0, Y: 0}, {X: 15, Y: 15}, {X: 0, Y: 15}}

func TestCreateAndGetGame(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateGame(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, engine.NotStarted, info.State.Status)
	assert.Empty(t, info.State.Robots)

	got, err := svc.GetGame(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.ID, got.ID)
	assert.False(t, got.LastAccessedAt.Before(info.LastAccessedAt))
}

func TestGetGame_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetGame(context.Background(), "missing")
	assert.ErrorIs(t, err, errMockNotFound)
}

func TestListAndDeleteGames(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateGame(ctx)
	require.NoError(t, err)
	_, err = svc.CreateGame(ctx)
	require.NoError(t, err)

	games, err := svc.ListGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 2)

	require.NoError(t, svc.DeleteGame(ctx, first.ID))
	games, err = svc.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.NotEqual(t, first.ID, games[0].ID)

	assert.ErrorIs(t, svc.DeleteGame(ctx, first.ID), errMockNotFound)
}

func TestAddPlayer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, err := svc.CreateGame(ctx)
	require.NoError(t, err)

	a, err := svc.AddPlayer(ctx, info.ID, "ada", "10.0.0.1:5000")
	require.NoError(t, err)
	b, err := svc.AddPlayer(ctx, info.ID, "ada", "10.0.0.1:5000")
	require.NoError(t, err)

	assert.NotEmpty(t, a.Player.ID)
	assert.NotEqual(t, a.Player.ID, b.Player.ID, "each join gets its own handle")
	assert.Len(t, b.GameState.Players, 2)
	require.Len(t, b.Events, 1)
	assert.Equal(t, service.EventPlayerJoined, b.Events[0].Type)
}

func TestStartGame(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, err := svc.CreateGame(ctx)
	require.NoError(t, err)

	result, err := svc.StartGame(ctx, info.ID)
	require.NoError(t, err)

	state := result.GameState
	assert.Equal(t, engine.RoundInProgress, state.Status)
	assert.Equal(t, 1, state.Round)
	assert.Len(t, state.Robots, engine.NumRobots)
	require.NotNil(t, state.Target)
	assert.True(t, engine.IsCornerTile(*state.Target))

	require.Len(t, result.Events, 2)
	assert.Equal(t, service.EventGameStarted, result.Events[0].Type)
	assert.Equal(t, service.EventRoundStarted, result.Events[1].Type)
	assert.Equal(t, state.Target, result.Events[1].Tile)
}

func TestOperationsBeforeStart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, err := svc.CreateGame(ctx)
	require.NoError(t, err)

	_, err = svc.NextRound(ctx, info.ID)
	assert.ErrorIs(t, err, engine.ErrGameNotStarted)

	_, err = svc.Reset(ctx, info.ID)
	assert.ErrorIs(t, err, engine.ErrGameNotStarted)

	_, err = svc.PossibleMoves(ctx, info.ID, 0)
	assert.ErrorIs(t, err, engine.ErrGameNotStarted)

	_, err = svc.MoveRobot(ctx, info.ID, 0, engine.NewTile(2, 0))
	assert.ErrorIs(t, err, engine.ErrGameNotStarted)
	assert.NotErrorIs(t, err, engine.ErrRobotNotFound)

	_, err = svc.MoveRobotDirection(ctx, info.ID, 0, "up")
	assert.ErrorIs(t, err, engine.ErrGameNotStarted)
	assert.NotErrorIs(t, err, engine.ErrRobotNotFound)
}

func TestAccessRefreshesLastAccessed(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	id := startedGame(t, svc, sessions, pinned)

	sess, err := sessions.Get(id)
	require.NoError(t, err)
	old := time.Now().Add(-time.Hour)
	sess.SetLastAccessedAt(old)

	result, err := svc.MoveRobotDirection(ctx, id, 0, "right")
	require.NoError(t, err)
	assert.Equal(t, id, result.GameID)
	assert.True(t, sess.LastAccessedAt().After(old))
}

func TestPossibleMoves(t *testing.T) {
	svc, sessions := newTestService(t)
	id := startedGame(t, svc, sessions, pinned)

	moves, err := svc.PossibleMoves(context.Background(), id, 1)
	require.NoError(t, err)
	assert.Equal(t, []engine.Tile{{X: 0, Y: 6}, {X: 4, Y: 0}}, moves)

	_, err = svc.PossibleMoves(context.Background(), id, 9)
	assert.ErrorIs(t, err, engine.ErrRobotNotFound)
}

func TestMoveRobot(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	id := startedGame(t, svc, sessions, pinned)

	t.Run("legal move", func(t *testing.T) {
		result, err := svc.MoveRobot(ctx, id, 0, engine.NewTile(2, 0))
		require.NoError(t, err)
		assert.Equal(t, id, result.GameID)
		assert.Equal(t, engine.NewTile(2, 3), result.From)
		assert.Equal(t, engine.NewTile(2, 0), result.To)
		assert.Equal(t, engine.NewTile(2, 0), result.GameState.Robots[0])
		assert.Equal(t, 1, result.GameState.MovesCount)
		assert.Equal(t, service.EventRobotMoved, result.Events[0].Type)
	})

	t.Run("illegal move", func(t *testing.T) {
		_, err := svc.MoveRobot(ctx, id, 0, engine.NewTile(5, 5))
		assert.ErrorIs(t, err, engine.ErrInvalidMove)
	})

	t.Run("unknown robot", func(t *testing.T) {
		_, err := svc.MoveRobot(ctx, id, -1, engine.NewTile(5, 5))
		assert.ErrorIs(t, err, engine.ErrRobotNotFound)
	})
}

func TestMoveRobotDirection(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	id := startedGame(t, svc, sessions, pinned)

	result, err := svc.MoveRobotDirection(ctx, id, 0, "Right")
	require.NoError(t, err)
	assert.Equal(t, engine.NewTile(15, 3), result.To)

	_, err = svc.MoveRobotDirection(ctx, id, 0, "right")
	assert.ErrorIs(t, err, engine.ErrInvalidMove)

	_, err = svc.MoveRobotDirection(ctx, id, 0, "sideways")
	assert.ErrorIs(t, err, engine.ErrInvalidDirection)
}

func TestMoveRobot_ReachesTarget(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	id := startedGame(t, svc, sessions, []engine.Tile{{X: 8, Y: 2}, {X: 15, Y: 15}, {X: 14, Y: 15}, {X: 13, Y: 15}})

	sess, err := sessions.Get(id)
	require.NoError(t, err)
	sess.Game.Board().SetTarget(engine.NewTile(1, 2))

	result, err := svc.MoveRobotDirection(ctx, id, 0, "left")
	require.NoError(t, err)
	assert.True(t, result.Reached)
	assert.True(t, result.GameState.Solved)
	require.Len(t, result.Events, 2)
	assert.Equal(t, service.EventTargetReached, result.Events[1].Type)
}

func TestSolve(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	id := startedGame(t, svc, sessions, []engine.Tile{{X: 8, Y: 2}, {X: 15, Y: 15}, {X: 14, Y: 15}, {X: 13, Y: 15}})

	sess, err := sessions.Get(id)
	require.NoError(t, err)
	sess.Game.Board().SetTarget(engine.NewTile(1, 2))

	sol, err := svc.Solve(ctx, id, 3)
	require.NoError(t, err)
	require.Len(t, sol.Moves, 1)
	assert.Equal(t, engine.Left, sol.Moves[0].Direction)

	// solving never moves robots
	info, err := svc.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, engine.NewTile(8, 2), info.State.Robots[0])
	assert.Equal(t, 0, info.State.MovesCount)

	result, err := svc.MoveRobot(ctx, id, sol.Moves[0].Robot, sol.Moves[0].To)
	require.NoError(t, err)
	assert.True(t, result.Reached)
}

func TestSolve_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	info, err := svc.CreateGame(ctx)
	require.NoError(t, err)

	_, err = svc.Solve(ctx, info.ID, 3)
	assert.ErrorIs(t, err, engine.ErrGameNotStarted)

	_, err = svc.Solve(ctx, "missing", 3)
	assert.Error(t, err)
}

func TestResetAndNextRound(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	id := startedGame(t, svc, sessions, pinned)

	_, err := svc.MoveRobot(ctx, id, 0, engine.NewTile(2, 0))
	require.NoError(t, err)

	reset, err := svc.Reset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pinned, reset.GameState.Robots)
	assert.Equal(t, service.EventReset, reset.Events[0].Type)

	_, err = svc.MoveRobot(ctx, id, 0, engine.NewTile(2, 0))
	require.NoError(t, err)

	next, err := svc.NextRound(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, next.GameState.Round)
	assert.Equal(t, next.GameState.Robots, next.GameState.Backup)
	assert.Equal(t, engine.NewTile(2, 0), next.GameState.Robots[0])
}

func TestRenderBoard(t *testing.T) {
	svc, sessions := newTestService(t)
	id := startedGame(t, svc, sessions, pinned)

	board, err := svc.RenderBoard(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, board, "  0 1 2 3 4 5 6 7 8 9 A B C D E F\n")
	assert.Contains(t, board, "x x")
}

func TestConcurrentMovesOnOneGame(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	id := startedGame(t, svc, sessions, pinned)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(robot int) {
			defer wg.Done()
			moves, err := svc.PossibleMoves(ctx, id, robot)
			if err != nil || len(moves) == 0 {
				return
			}
			// a concurrent move may have invalidated the destination
			_, _ = svc.MoveRobot(ctx, id, robot, moves[0])
		}(i % engine.NumRobots)
	}
	wg.Wait()

	info, err := svc.GetGame(ctx, id)
	require.NoError(t, err)
	seen := make(map[engine.Tile]bool)
	for _, r := range info.State.Robots {
		assert.False(t, seen[r], "robots overlap at %s", r)
		seen[r] = true
	}
}
