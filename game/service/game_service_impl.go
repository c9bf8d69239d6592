package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/robot-server/game/engine"
	"github.com/wricardo/robot-server/game/solver"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
	}
}

// withSession looks up a game and runs fn while holding its lock
func (s *gameServiceImpl) withSession(gameID string, fn func(*Session) error) error {
	sess, err := s.sessions.Get(gameID)
	if err != nil {
		return fmt.Errorf("game %s: %w", gameID, err)
	}
	sess.Touch()

	sess.Lock()
	defer sess.Unlock()
	return fn(sess)
}

func gameInfo(sess *Session) *GameInfo {
	state := sess.Game.State()
	return &GameInfo{
		ID:             sess.ID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt(),
		State:          &state,
	}
}

func stateOf(sess *Session) *engine.GameState {
	state := sess.Game.State()
	return &state
}

// CreateGame hosts a new game with the default maze
func (s *gameServiceImpl) CreateGame(ctx context.Context) (*GameInfo, error) {
	sess, err := s.sessions.Create("")
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	log.WithField("game", sess.ID).Info("game created")

	sess.Lock()
	defer sess.Unlock()
	return gameInfo(sess), nil
}

// GetGame retrieves game information
func (s *gameServiceImpl) GetGame(ctx context.Context, gameID string) (*GameInfo, error) {
	var info *GameInfo
	err := s.withSession(gameID, func(sess *Session) error {
		info = gameInfo(sess)
		return nil
	})
	return info, err
}

// ListGames returns all hosted games ordered by creation time
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*GameInfo, error) {
	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	result := make([]*GameInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.Lock()
		result = append(result, gameInfo(sess))
		sess.Unlock()
	}
	return result, nil
}

// DeleteGame removes a game
func (s *gameServiceImpl) DeleteGame(ctx context.Context, gameID string) error {
	if err := s.sessions.Delete(gameID); err != nil {
		return fmt.Errorf("game %s: %w", gameID, err)
	}
	log.WithField("game", gameID).Info("game deleted")
	return nil
}

// AddPlayer registers a player under a freshly issued handle
func (s *gameServiceImpl) AddPlayer(ctx context.Context, gameID, name, origin string) (*PlayerResult, error) {
	var result *PlayerResult
	err := s.withSession(gameID, func(sess *Session) error {
		player := engine.Player{
			ID:       uuid.NewString(),
			Name:     name,
			Origin:   origin,
			JoinedAt: time.Now(),
		}
		sess.Game.AddPlayer(player)

		log.WithFields(log.Fields{
			"game":   gameID,
			"player": player.ID,
			"origin": origin,
		}).Info("player joined")

		result = &PlayerResult{
			GameID:    sess.ID,
			Player:    player,
			GameState: stateOf(sess),
			Events:    []GameEvent{newEvent(EventPlayerJoined, fmt.Sprintf("%s joined", displayName(player)))},
		}
		return nil
	})
	return result, err
}

// StartGame places robots and draws the first target
func (s *gameServiceImpl) StartGame(ctx context.Context, gameID string) (*StateResult, error) {
	var result *StateResult
	err := s.withSession(gameID, func(sess *Session) error {
		if err := sess.Game.StartGame(); err != nil {
			log.WithField("game", gameID).WithError(err).Error("start game failed")
			return err
		}
		target, _ := sess.Game.Board().Target()
		log.WithFields(log.Fields{"game": gameID, "target": target}).Info("game started")

		result = &StateResult{
			GameID:    sess.ID,
			GameState: stateOf(sess),
			Events: []GameEvent{
				newEvent(EventGameStarted, "Robots placed"),
				roundEvent(sess.Game.Round(), target),
			},
		}
		return nil
	})
	return result, err
}

// NextRound draws a new target from the robots' current positions
func (s *gameServiceImpl) NextRound(ctx context.Context, gameID string) (*StateResult, error) {
	var result *StateResult
	err := s.withSession(gameID, func(sess *Session) error {
		if err := sess.Game.StartNextRound(); err != nil {
			return err
		}
		target, _ := sess.Game.Board().Target()
		log.WithFields(log.Fields{"game": gameID, "round": sess.Game.Round(), "target": target}).Info("round started")

		result = &StateResult{
			GameID:    sess.ID,
			GameState: stateOf(sess),
			Events:    []GameEvent{roundEvent(sess.Game.Round(), target)},
		}
		return nil
	})
	return result, err
}

// Reset puts the robots back where the round started
func (s *gameServiceImpl) Reset(ctx context.Context, gameID string) (*StateResult, error) {
	var result *StateResult
	err := s.withSession(gameID, func(sess *Session) error {
		if err := sess.Game.Reset(); err != nil {
			return err
		}
		log.WithField("game", gameID).Debug("robots reset")

		result = &StateResult{
			GameID:    sess.ID,
			GameState: stateOf(sess),
			Events:    []GameEvent{newEvent(EventReset, "Robots returned to round start positions")},
		}
		return nil
	})
	return result, err
}

// PossibleMoves returns the legal destinations of a robot
func (s *gameServiceImpl) PossibleMoves(ctx context.Context, gameID string, robot int) ([]engine.Tile, error) {
	var moves []engine.Tile
	err := s.withSession(gameID, func(sess *Session) error {
		var err error
		moves, err = sess.Game.CanMoveRobot(robot)
		return err
	})
	return moves, err
}

// MoveRobot moves a robot to one of its legal destinations
func (s *gameServiceImpl) MoveRobot(ctx context.Context, gameID string, robot int, to engine.Tile) (*MoveResult, error) {
	var result *MoveResult
	err := s.withSession(gameID, func(sess *Session) error {
		if sess.Game.Status() != engine.RoundInProgress {
			return engine.ErrGameNotStarted
		}
		from, err := sess.Game.Board().Robot(robot)
		if err != nil {
			return err
		}
		reached, err := sess.Game.MoveRobot(robot, to)
		if err != nil {
			log.WithFields(log.Fields{"game": gameID, "robot": robot, "from": from, "to": to}).WithError(err).Debug("move rejected")
			return err
		}
		result = moveResult(sess, gameID, robot, from, to, reached)
		return nil
	})
	return result, err
}

// MoveRobotDirection slides a robot in the named direction
func (s *gameServiceImpl) MoveRobotDirection(ctx context.Context, gameID string, robot int, direction string) (*MoveResult, error) {
	d, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	var result *MoveResult
	err = s.withSession(gameID, func(sess *Session) error {
		if sess.Game.Status() != engine.RoundInProgress {
			return engine.ErrGameNotStarted
		}
		from, err := sess.Game.Board().Robot(robot)
		if err != nil {
			return err
		}
		to, reached, err := sess.Game.MoveRobotDirection(robot, d)
		if err != nil {
			log.WithFields(log.Fields{"game": gameID, "robot": robot, "from": from, "direction": d}).WithError(err).Debug("move rejected")
			return err
		}
		result = moveResult(sess, gameID, robot, from, to, reached)
		return nil
	})
	return result, err
}

// RenderBoard draws the board of a game as text
func (s *gameServiceImpl) RenderBoard(ctx context.Context, gameID string) (string, error) {
	var board string
	err := s.withSession(gameID, func(sess *Session) error {
		board = sess.Game.Board().Render()
		return nil
	})
	return board, err
}

// Solve searches for the shortest solution of the current round. The search
// runs on a copy of the board so the game stays playable meanwhile.
func (s *gameServiceImpl) Solve(ctx context.Context, gameID string, maxDepth int) (*solver.Solution, error) {
	var board *engine.Board
	err := s.withSession(gameID, func(sess *Session) error {
		if sess.Game.Status() != engine.RoundInProgress {
			return engine.ErrGameNotStarted
		}
		board = sess.Game.Board().Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	started := time.Now()
	sol, err := solver.Solve(ctx, board, solver.Options{MaxDepth: maxDepth})
	fields := log.Fields{"game": gameID, "max_depth": maxDepth, "elapsed": time.Since(started)}
	if err != nil {
		log.WithFields(fields).WithError(err).Debug("no solution")
		return nil, fmt.Errorf("game %s: %w", gameID, err)
	}
	fields["moves"] = len(sol.Moves)
	fields["explored"] = sol.Explored
	log.WithFields(fields).Info("round solved")
	return sol, nil
}

func moveResult(sess *Session, gameID string, robot int, from, to engine.Tile, reached bool) *MoveResult {
	log.WithFields(log.Fields{
		"game":    gameID,
		"robot":   robot,
		"from":    from,
		"to":      to,
		"reached": reached,
	}).Info("robot moved")

	r := robot
	dest := to
	events := []GameEvent{{
		Type:      EventRobotMoved,
		Message:   fmt.Sprintf("Robot %d moved from %s to %s", robot, from, to),
		Timestamp: time.Now(),
		Robot:     &r,
		Tile:      &dest,
	}}
	if reached {
		events = append(events, GameEvent{
			Type:      EventTargetReached,
			Message:   fmt.Sprintf("Robot %d reached the target in %d moves", robot, sess.Game.State().MovesCount),
			Timestamp: time.Now(),
			Robot:     &r,
			Tile:      &dest,
		})
	}

	return &MoveResult{
		GameID:    sess.ID,
		Robot:     robot,
		From:      from,
		To:        to,
		Reached:   reached,
		GameState: stateOf(sess),
		Events:    events,
	}
}

func roundEvent(round int, target engine.Tile) GameEvent {
	ev := newEvent(EventRoundStarted, fmt.Sprintf("Round %d: target at %s", round, target))
	ev.Tile = &target
	return ev
}

func displayName(p engine.Player) string {
	if p.Name != "" {
		return p.Name
	}
	return "player " + p.ID
}
