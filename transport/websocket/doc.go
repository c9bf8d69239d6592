// Package websocket pushes game updates to subscribed WebSocket clients.
//
// Architecture:
//
// A central Hub owns every subscription and runs on its own goroutine.
// Each connection gets a Client with a read pump (keeps the connection
// alive and notices disconnects) and a write pump (delivers queued frames
// and pings). Clients that fall behind are dropped.
//
// Message Protocol:
//
// Clients subscribe with GET /ws?game=<id> and never send commands; moves go
// through the REST API. Every outgoing frame is one JSON Message:
//
//	{"game_id": "a1b2", "event": "robot_moved", "game_state": {...}, "data": {...}}
//
// The first frame is a "snapshot" of the game. Later frames carry the event
// that caused them ("state_update", "round_started", "target_reached", ...).
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.ServeWS(w, r, gameID, &state)
//	hub.BroadcastState(gameID, &state)
package websocket
