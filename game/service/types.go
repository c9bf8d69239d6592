package service

import (
	"time"

	"github.com/wricardo/robot-server/game/engine"
)

// Event types pushed to subscribers of a game
const (
	EventPlayerJoined  = "player_joined"
	EventGameStarted   = "game_started"
	EventRoundStarted  = "round_started"
	EventRobotMoved    = "robot_moved"
	EventTargetReached = "target_reached"
	EventReset         = "reset"
)

// GameInfo provides information about a game
type GameInfo struct {
	ID             string            `json:"id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	State          *engine.GameState `json:"state"`
}

// MoveResult contains the result of a robot move
type MoveResult struct {
	GameID    string            `json:"game_id"`
	Robot     int               `json:"robot"`
	From      engine.Tile       `json:"from"`
	To        engine.Tile       `json:"to"`
	Reached   bool              `json:"reached"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// StateResult is returned by operations that change the round
type StateResult struct {
	GameID    string            `json:"game_id"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// PlayerResult is returned when a player joins a game
type PlayerResult struct {
	GameID    string            `json:"game_id"`
	Player    engine.Player     `json:"player"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// GameEvent represents something that happened in a game
type GameEvent struct {
	Type      string       `json:"type"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
	Robot     *int         `json:"robot,omitempty"`
	Tile      *engine.Tile `json:"tile,omitempty"`
}

func newEvent(eventType, message string) GameEvent {
	return GameEvent{Type: eventType, Message: message, Timestamp: time.Now()}
}
