// Package mcp exposes the robot server to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes one REST request
// against the api package, so agents and HTTP players share the same games.
//
// MCP Tools:
//   - create_game, list_games, get_game
//   - join_game, start_game, next_round, reset_robots
//   - possible_moves, move_robot (by direction or destination)
//   - show_board, solve_round, game_instructions
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp handled with GetMCPServer().HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
