package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Status is the round lifecycle state of a game
type Status string

const (
	NotStarted      Status = "not_started"
	RoundInProgress Status = "round_in_progress"
)

// Player is a participant in a game. ID is an opaque handle issued by the
// caller; Origin is informational only.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Origin   string    `json:"origin,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// GameState is a read-only snapshot of a game for broadcasting
type GameState struct {
	Status     Status   `json:"status"`
	Round      int      `json:"round"`
	Robots     []Tile   `json:"robots"`
	Backup     []Tile   `json:"backup_positions"`
	Target     *Tile    `json:"target,omitempty"`
	Solved     bool     `json:"solved"`
	MovesCount int      `json:"moves_count"`
	Players    []Player `json:"players"`
}

// Game owns one board and the player list and drives rounds
type Game struct {
	board      *Board
	players    []Player
	status     Status
	round      int
	solved     bool
	movesCount int
}

// Option configures a new game
type Option func(*Game)

// WithRand makes the game draw robots and targets from r
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.board.rng = r
	}
}

// NewGame creates a game with the default maze and no robots
func NewGame(opts ...Option) *Game {
	board := NewBoard(rand.New(rand.NewSource(time.Now().UnixNano())))
	board.InitDefault()

	g := &Game{
		board:   board,
		players: []Player{},
		status:  NotStarted,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Board returns the underlying board
func (g *Game) Board() *Board {
	return g.board
}

// Status returns the lifecycle state
func (g *Game) Status() Status {
	return g.status
}

// Round returns the 1-based number of the current round, or 0 before start
func (g *Game) Round() int {
	return g.round
}

// AddPlayer appends a player. No deduplication or limit is applied.
func (g *Game) AddPlayer(p Player) {
	g.players = append(g.players, p)
}

// Players returns a copy of the player list
func (g *Game) Players() []Player {
	out := make([]Player, len(g.players))
	copy(out, g.players)
	return out
}

// StartGame places fresh robots and starts the first round
func (g *Game) StartGame() error {
	g.board.Clear()
	if err := g.board.InitRobots(); err != nil {
		return err
	}
	g.status = RoundInProgress
	g.round = 0
	return g.StartNextRound()
}

// StartNextRound draws a new target from the corner catalog, skipping tiles
// that hold a robot, and snapshots robot positions for Reset.
func (g *Game) StartNextRound() error {
	if g.status != RoundInProgress {
		return ErrGameNotStarted
	}

	for attempts := 0; ; attempts++ {
		if attempts >= MaxTargetAttempts {
			return fmt.Errorf("%w: target selection gave up after %d attempts", ErrInvariant, attempts)
		}
		tile := cornerCatalog[g.board.rng.Intn(len(cornerCatalog))].Tile
		if _, occupied := g.board.HasRobot(tile); occupied {
			continue
		}
		g.board.SetTarget(tile)
		break
	}

	g.board.Snapshot()
	g.round++
	g.solved = false
	g.movesCount = 0
	return nil
}

// Reset undoes all moves of the current round
func (g *Game) Reset() error {
	if g.status != RoundInProgress {
		return ErrGameNotStarted
	}
	g.board.Reset()
	g.solved = false
	g.movesCount = 0
	return nil
}

// Clear removes robots and returns the game to NotStarted. Players stay.
func (g *Game) Clear() {
	g.board.Clear()
	g.status = NotStarted
	g.round = 0
	g.solved = false
	g.movesCount = 0
}

// CanMoveRobot returns the legal destinations of a robot
func (g *Game) CanMoveRobot(robot int) ([]Tile, error) {
	if g.status != RoundInProgress {
		return nil, ErrGameNotStarted
	}
	return g.board.CanMoveRobot(robot)
}

// MoveRobot moves a robot to a legal destination and reports whether it
// reached the target.
func (g *Game) MoveRobot(robot int, tile Tile) (bool, error) {
	if g.status != RoundInProgress {
		return false, ErrGameNotStarted
	}
	reached, err := g.board.MoveRobot(robot, tile)
	if err != nil {
		return false, err
	}
	g.movesCount++
	if reached {
		g.solved = true
	}
	return reached, nil
}

// MoveRobotDirection slides a robot in direction d. It returns the
// destination and whether the robot reached the target.
func (g *Game) MoveRobotDirection(robot int, d Direction) (Tile, bool, error) {
	if g.status != RoundInProgress {
		return Tile{}, false, ErrGameNotStarted
	}
	dest, ok, err := g.board.Slide(robot, d)
	if err != nil {
		return Tile{}, false, err
	}
	if !ok {
		from, _ := g.board.Robot(robot)
		return Tile{}, false, fmt.Errorf("%w: robot %d cannot move %s from %s", ErrInvalidMove, robot, d, from)
	}
	reached, err := g.MoveRobot(robot, dest)
	return dest, reached, err
}

// State returns a snapshot of the game
func (g *Game) State() GameState {
	state := GameState{
		Status:     g.status,
		Round:      g.round,
		Robots:     g.board.Robots(),
		Backup:     g.board.BackupPositions(),
		Solved:     g.solved,
		MovesCount: g.movesCount,
		Players:    g.Players(),
	}
	if target, ok := g.board.Target(); ok && g.status == RoundInProgress {
		state.Target = &target
	}
	return state
}
