package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wricardo/robot-server/game/engine"
	"github.com/wricardo/robot-server/game/solver"
)

// GameService defines all game-related operations
type GameService interface {
	// Game Management
	CreateGame(ctx context.Context) (*GameInfo, error)
	GetGame(ctx context.Context, gameID string) (*GameInfo, error)
	ListGames(ctx context.Context) ([]*GameInfo, error)
	DeleteGame(ctx context.Context, gameID string) error

	// Round Lifecycle
	AddPlayer(ctx context.Context, gameID, name, origin string) (*PlayerResult, error)
	StartGame(ctx context.Context, gameID string) (*StateResult, error)
	NextRound(ctx context.Context, gameID string) (*StateResult, error)
	Reset(ctx context.Context, gameID string) (*StateResult, error)

	// Movement
	PossibleMoves(ctx context.Context, gameID string, robot int) ([]engine.Tile, error)
	MoveRobot(ctx context.Context, gameID string, robot int, to engine.Tile) (*MoveResult, error)
	MoveRobotDirection(ctx context.Context, gameID string, robot int, direction string) (*MoveResult, error)

	// Board
	RenderBoard(ctx context.Context, gameID string) (string, error)
	Solve(ctx context.Context, gameID string, maxDepth int) (*solver.Solution, error)
}

// SessionManager defines game storage operations
type SessionManager interface {
	Create(id string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
}

// Session is one hosted game. Game must only be touched while holding the
// session lock.
type Session struct {
	ID        string
	Game      *engine.Game
	CreatedAt time.Time

	mu         sync.Mutex
	lastAccess atomic.Int64
}

// NewSession wraps a game under the given id
func NewSession(id string, game *engine.Game) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		Game:      game,
		CreatedAt: now,
	}
	s.lastAccess.Store(now.UnixNano())
	return s
}

// Lock serializes operations on the game
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the game
func (s *Session) Unlock() { s.mu.Unlock() }

// Touch records an access at the current time
func (s *Session) Touch() { s.SetLastAccessedAt(time.Now()) }

// LastAccessedAt returns the time of the last access
func (s *Session) LastAccessedAt() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

// SetLastAccessedAt overrides the last access time
func (s *Session) SetLastAccessedAt(t time.Time) {
	s.lastAccess.Store(t.UnixNano())
}
