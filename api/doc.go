// Package api provides the HTTP REST API of the robot server.
//
// Endpoints:
//
// Game Management:
//   - POST /api/games - Create a game
//   - GET /api/games - List games
//   - GET /api/games/{id} - Get a game
//   - DELETE /api/games/{id} - Remove a game
//
// Round Lifecycle:
//   - POST /api/games/{id}/players - Join with {"name": "..."}
//   - POST /api/games/{id}/start - Place robots and draw the first target
//   - POST /api/games/{id}/next-round - Draw a new target
//   - POST /api/games/{id}/reset - Put robots back at the round start
//
// Robots:
//   - GET /api/games/{id}/robots/{robot}/moves - Legal destinations
//   - POST /api/games/{id}/robots/{robot}/move - Move with {"x": 2, "y": 0} or {"direction": "up"}
//
// Other:
//   - GET /api/games/{id}/board - Text rendering of the board
//   - GET /api/games/{id}/solve?max_depth=6 - Shortest solution of the current round
//   - GET /ws?game={id} - WebSocket subscription
//   - GET /healthz - Liveness probe
//
// Errors:
//
// Failures are returned as {"error": "..."}. Unknown games and robots map to
// 404, bad directions to 400, illegal moves to 422, operations before the
// game starts to 409 and everything else to 500. A solve that finds nothing
// within its bounds is a 404; one that runs out of time is a 504.
//
// Every successful mutation is forwarded to the game's WebSocket
// subscribers, one frame per event.
package api
