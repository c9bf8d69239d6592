package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/robot-server/game/engine"
	"github.com/wricardo/robot-server/game/service"
	"github.com/wricardo/robot-server/game/solver"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Robot Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Robot Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Four robots sit on a 16x16 maze. Each round one corner tile is the target.
Route any robot onto it. Robots slide until they hit a wall, another robot
or the 2x2 center box.

AVAILABLE TOOLS:
- create_game / list_games / get_game: manage games
- join_game: register a player
- start_game: place robots and draw the first target
- next_round: draw a new target
- reset_robots: put robots back where the round started
- possible_moves: legal destinations of one robot
- move_robot: slide a robot (direction, or x/y of a legal destination)
- show_board: text rendering of the board
- solve_round: shortest move sequence for the current target
- game_instructions: rules and board legend`),
	)

	c.registerTools()
}

func gameIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Game ID",
	}
}

func robotProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     engine.NumRobots - 1,
		"description": "Robot index (0-3)",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Game management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game on the default maze",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all hosted games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_game",
		Description: "Get the state of a game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"game_id": gameIDProperty()},
			Required:   []string{"game_id"},
		},
	}, c.handleGetGame)

	// Round lifecycle
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Join a game as a player",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Display name",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleJoinGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Place the four robots and draw the first target",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"game_id": gameIDProperty()},
			Required:   []string{"game_id"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "next_round",
		Description: "Keep the robots where they are and draw a new target",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"game_id": gameIDProperty()},
			Required:   []string{"game_id"},
		},
	}, c.handleNextRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_robots",
		Description: "Undo every move of the current round",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"game_id": gameIDProperty()},
			Required:   []string{"game_id"},
		},
	}, c.handleReset)

	// Robots
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "possible_moves",
		Description: "List where a robot can slide to, at most one tile per direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
				"robot":   robotProperty(),
			},
			Required: []string{"game_id", "robot"},
		},
	}, c.handlePossibleMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_robot",
		Description: "Slide a robot. Give either a direction or the x/y of one of its possible moves.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
				"robot":   robotProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to slide",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Destination column (0-15)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Destination row (0-15)",
				},
			},
			Required: []string{"game_id", "robot"},
		},
	}, c.handleMoveRobot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "show_board",
		Description: "Render the board as text",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"game_id": gameIDProperty()},
			Required:   []string{"game_id"},
		},
	}, c.handleShowBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_round",
		Description: "Find the shortest move sequence that brings a robot onto the current target. Does not move anything.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
				"max_depth": map[string]interface{}{
					"type":        "integer",
					"description": "Longest solution to look for (default 6)",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleSolveRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules and the board legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) apiText(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, "GET", path, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	return string(data), err
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg accepts JSON numbers (float64) and Go ints
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func gameArg(args map[string]interface{}) (string, error) {
	id := stringArg(args, "game_id")
	if id == "" {
		return "", fmt.Errorf("game_id is required")
	}
	return id, nil
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var info service.GameInfo
	if err := c.apiCall(ctx, "POST", "/api/games", nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %s\nCall join_game, then start_game to place the robots.\n", info.ID)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                `json:"count"`
		Games []service.GameInfo `json:"games"`
	}
	if err := c.apiCall(ctx, "GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Games (%d):\n\n", response.Count)
	for _, g := range response.Games {
		status, round, players := engine.NotStarted, 0, 0
		if g.State != nil {
			status, round, players = g.State.Status, g.State.Round, len(g.State.Players)
		}
		fmt.Fprintf(&b, "- %s (%s, round %d, %d players, created %s)\n",
			g.ID, status, round, players, g.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := gameArg(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var info service.GameInfo
	if err := c.apiCall(ctx, "GET", "/api/games/"+gameID, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(info.ID, info.State)), nil
}

func (c *Client) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, err := gameArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var joined service.PlayerResult
	body := map[string]string{"name": stringArg(args, "name")}
	if err := c.apiCall(ctx, "POST", "/api/games/"+gameID+"/players", body, &joined); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Joined game %s as player %s\n", gameID, joined.Player.ID)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.roundCall(ctx, request, "start")
}

func (c *Client) handleNextRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.roundCall(ctx, request, "next-round")
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.roundCall(ctx, request, "reset")
}

func (c *Client) roundCall(ctx context.Context, request mcp.CallToolRequest, action string) (*mcp.CallToolResult, error) {
	gameID, err := gameArg(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.StateResult
	if err := c.apiCall(ctx, "POST", "/api/games/"+gameID+"/"+action, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatEvents(result.Events) + formatGameState(gameID, result.GameState)), nil
}

func (c *Client) handlePossibleMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, err := gameArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	robot, ok := intArg(args, "robot")
	if !ok {
		return mcp.NewToolResultError("robot is required"), nil
	}

	var response struct {
		Robot int           `json:"robot"`
		Moves []engine.Tile `json:"moves"`
	}
	path := fmt.Sprintf("/api/games/%s/robots/%d/moves", gameID, robot)
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(response.Moves) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Robot %d cannot move.\n", robot)), nil
	}
	moves := make([]string, len(response.Moves))
	for i, t := range response.Moves {
		moves[i] = t.String()
	}
	return mcp.NewToolResultText(fmt.Sprintf("Robot %d can move to: %s\n", robot, strings.Join(moves, ", "))), nil
}

func (c *Client) handleMoveRobot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, err := gameArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	robot, ok := intArg(args, "robot")
	if !ok {
		return mcp.NewToolResultError("robot is required"), nil
	}

	body := map[string]interface{}{}
	if direction := stringArg(args, "direction"); direction != "" {
		body["direction"] = direction
	} else {
		x, okX := intArg(args, "x")
		y, okY := intArg(args, "y")
		if !okX || !okY {
			return mcp.NewToolResultError("provide either direction or both x and y"), nil
		}
		body["x"], body["y"] = x, y
	}

	var result service.MoveResult
	path := fmt.Sprintf("/api/games/%s/robots/%d/move", gameID, robot)
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleShowBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := gameArg(arguments(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	board, err := c.apiText(ctx, "/api/games/"+gameID+"/board")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(board + boardLegend), nil
}

func (c *Client) handleSolveRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, err := gameArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path := "/api/games/" + gameID + "/solve"
	if depth, ok := intArg(args, "max_depth"); ok {
		path += fmt.Sprintf("?max_depth=%d", depth)
	}

	var sol solver.Solution
	if err := c.apiCall(ctx, "GET", path, nil, &sol); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSolution(&sol)), nil
}

func formatSolution(sol *solver.Solution) string {
	if len(sol.Moves) == 0 {
		return "A robot is already on the target.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Solution in %d moves (%d positions explored):\n", len(sol.Moves), sol.Explored)
	for i, m := range sol.Moves {
		fmt.Fprintf(&b, "%d. robot %d %s: %s -> %s\n", i+1, m.Robot, m.Direction, m.From, m.To)
	}
	return b.String()
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const boardLegend = `
Legend: 0-3 robot, T target, x center box, | wall on the right, _ wall below, . empty
`

const instructions = `Robot Server - Instructions

GAME OBJECTIVE:
Each round has one target tile. Move any robot onto it in as few moves as you can.

THE BOARD:
- 16x16 grid, (0,0) is the top left corner, x grows to the right, y grows down.
- Walls sit between tiles. The outer edge of the grid is a wall.
- The 2x2 box in the middle (tiles 7-8 on both axes) is closed to robots.
- Targets are always one of the 17 L-shaped corner tiles.

MOVEMENT:
- A robot slides in a straight line until the next step would cross a wall,
  enter another robot's tile, or enter the center box.
- A direction that does not move the robot at all is not a legal move.
- possible_moves lists the stop tile of every legal direction (up, down, left, right).

ROUNDS:
- start_game places the robots at random and draws the first target.
- reset_robots puts every robot back where the round started.
- next_round keeps the robots where they are and draws a new target.

STRATEGY:
- Robots make good blockers: park one next to the target's open side, then slide another against it.
- Use show_board to see walls; compare with possible_moves before committing.
`

// Formatting helpers

func formatGameState(gameID string, state *engine.GameState) string {
	if state == nil {
		return fmt.Sprintf("Game %s: no state\n", gameID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Game %s\n", gameID)
	fmt.Fprintf(&b, "Status: %s\n", state.Status)
	if state.Status == engine.NotStarted {
		fmt.Fprintf(&b, "Players: %d\n", len(state.Players))
		return b.String()
	}

	fmt.Fprintf(&b, "Round: %d\n", state.Round)
	if state.Target != nil {
		fmt.Fprintf(&b, "Target: %s\n", state.Target)
	}
	for i, r := range state.Robots {
		fmt.Fprintf(&b, "Robot %d: %s\n", i, r)
	}
	fmt.Fprintf(&b, "Moves this round: %d\n", state.MovesCount)
	if state.Solved {
		b.WriteString("Target reached! Call next_round for a new target.\n")
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Robot %d moved %s -> %s\n", result.Robot, result.From, result.To)
	if result.Reached {
		b.WriteString("TARGET REACHED!\n")
	}
	if result.GameState != nil {
		fmt.Fprintf(&b, "Moves this round: %d\n", result.GameState.MovesCount)
	}
	return b.String()
}

func formatEvents(events []service.GameEvent) string {
	var b strings.Builder
	for _, ev := range events {
		fmt.Fprintf(&b, "[%s] %s\n", ev.Type, ev.Message)
	}
	return b.String()
}
