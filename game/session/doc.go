// Package session is the registry of hosted robot games.
//
// Core Types:
//
// Manager maps short game IDs to service.Session values. Each session owns
// one engine.Game plus its creation and last access times.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters drawn from crypto/rand. Lookups are
// case-insensitive. A generated ID that collides is redrawn.
//
// Concurrency:
//
// The registry map is guarded by a sync.RWMutex. It never locks the games
// themselves; callers hold the session lock while operating on a game.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
//
// Games live in memory only and are lost on restart.
package session
