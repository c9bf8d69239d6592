// Package service provides the business logic layer of the robot server.
//
// The service package implements:
//   - Hosting many independent games
//   - Player registration with server-issued handles
//   - Round lifecycle (start, next round, reset)
//   - Move validation and target detection
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles game creation, retrieval, and lifecycle.
//
// Architecture:
//
// The service layer sits between the transports (HTTP/WebSocket/MCP) and the
// engine. Every operation on a game runs while holding that game's session
// lock, so requests against one game are serialized while different games
// proceed in parallel. Mutating operations return the events they produced
// so transports can forward them to subscribers.
//
// Usage:
//
//	sessions := session.NewManager()
//	gameService := service.NewGameService(sessions)
//
//	info, err := gameService.CreateGame(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	gameService.StartGame(ctx, info.ID)
//
//	moves, _ := gameService.PossibleMoves(ctx, info.ID, 0)
//	result, err := gameService.MoveRobot(ctx, info.ID, 0, moves[0])
//
// Errors from the engine (engine.ErrInvalidMove and friends) are returned
// unchanged or wrapped, so callers can match them with errors.Is.
package service
