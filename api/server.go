package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/wricardo/robot-server/game/engine"
	"github.com/wricardo/robot-server/game/service"
	"github.com/wricardo/robot-server/game/session"
	"github.com/wricardo/robot-server/game/solver"
	"github.com/wricardo/robot-server/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil, in which case
// nothing is broadcast and /ws is unavailable.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Game management
	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleDeleteGame).Methods("DELETE")

	// Round lifecycle
	api.HandleFunc("/games/{id}/players", s.handleAddPlayer).Methods("POST")
	api.HandleFunc("/games/{id}/start", s.handleStartGame).Methods("POST")
	api.HandleFunc("/games/{id}/next-round", s.handleNextRound).Methods("POST")
	api.HandleFunc("/games/{id}/reset", s.handleReset).Methods("POST")

	// Robots
	api.HandleFunc("/games/{id}/robots/{robot}/moves", s.handlePossibleMoves).Methods("GET")
	api.HandleFunc("/games/{id}/robots/{robot}/move", s.handleMoveRobot).Methods("POST")

	api.HandleFunc("/games/{id}/board", s.handleBoard).Methods("GET")
	api.HandleFunc("/games/{id}/solve", s.handleSolve).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps engine and registry errors to HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, engine.ErrRobotNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrInvalidMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrGameNotStarted), errors.Is(err, solver.ErrNoTarget):
		return http.StatusConflict
	case errors.Is(err, solver.ErrNoSolution):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func robotParam(r *http.Request) (int, error) {
	raw := mux.Vars(r)["robot"]
	robot, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("robot must be an integer, got %q", raw)
	}
	return robot, nil
}

// publish forwards the events of a mutation to the game's subscribers.
// canonical is the ID the service reported for the game; requested is the
// ID from the URL and is used only when the service reported none.
func (s *Server) publish(canonical, requested string, state *engine.GameState, events []service.GameEvent) {
	if s.hub == nil {
		return
	}
	gameID := canonical
	if gameID == "" {
		gameID = requested
	}
	if len(events) == 0 {
		s.hub.BroadcastState(gameID, state)
		return
	}
	for _, ev := range events {
		s.hub.BroadcastEvent(gameID, ev.Type, state, ev)
	}
}

// Game Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.CreateGame(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	info, err := s.service.GetGame(r.Context(), gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	if err := s.service.DeleteGame(r.Context(), gameID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Game %s deleted", gameID),
	})
}

// Round Handlers

func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		Name string `json:"name"`
	}
	if r.Body != nil {
		// an empty body joins an anonymous player
		json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := s.service.AddPlayer(r.Context(), gameID, req.Name, r.RemoteAddr)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publish(result.GameID, gameID, result.GameState, result.Events)
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	result, err := s.service.StartGame(r.Context(), gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publish(result.GameID, gameID, result.GameState, result.Events)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleNextRound(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	result, err := s.service.NextRound(r.Context(), gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publish(result.GameID, gameID, result.GameState, result.Events)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	result, err := s.service.Reset(r.Context(), gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publish(result.GameID, gameID, result.GameState, result.Events)
	respondJSON(w, http.StatusOK, result)
}

// Robot Handlers

func (s *Server) handlePossibleMoves(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	robot, err := robotParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	moves, err := s.service.PossibleMoves(r.Context(), gameID, robot)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"robot": robot,
		"moves": moves,
	})
}

func (s *Server) handleMoveRobot(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	robot, err := robotParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		X         *int   `json:"x,omitempty"`
		Y         *int   `json:"y,omitempty"`
		Direction string `json:"direction,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var result *service.MoveResult
	switch {
	case req.Direction != "":
		result, err = s.service.MoveRobotDirection(r.Context(), gameID, robot, req.Direction)
	case req.X != nil && req.Y != nil:
		result, err = s.service.MoveRobot(r.Context(), gameID, robot, engine.NewTile(*req.X, *req.Y))
	default:
		respondError(w, http.StatusBadRequest, "Provide either direction or both x and y")
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publish(result.GameID, gameID, result.GameState, result.Events)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	board, err := s.service.RenderBoard(r.Context(), gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(board))
}

// solveTimeout caps a single solve request
const solveTimeout = 10 * time.Second

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	maxDepth := 0
	if raw := r.URL.Query().Get("max_depth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("max_depth must be a positive integer, got %q", raw))
			return
		}
		maxDepth = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), solveTimeout)
	defer cancel()

	sol, err := s.service.Solve(ctx, gameID, maxDepth)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sol)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, "game parameter required", http.StatusBadRequest)
		return
	}
	if s.hub == nil {
		http.Error(w, "websocket unavailable", http.StatusServiceUnavailable)
		return
	}

	info, err := s.service.GetGame(r.Context(), gameID)
	if err != nil {
		http.Error(w, "Invalid game", http.StatusNotFound)
		return
	}

	log.WithField("game", info.ID).Debug("websocket subscription")
	s.hub.ServeWS(w, r, info.ID, info.State)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
