// Package session provides session management for Fleet Command.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - File-backed persistence of every match
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// FilePersistence stores each session as one JSON file holding the board
// configuration and a snapshot of the game.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive and generated IDs never collide with a live or persisted
// session.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions", configManager)
//	manager := session.NewManagerWithPersistence(persistence)
//
//	sess, err := manager.Create("", config, "Alice", "Bob")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Restoring:
//
// Persisted games are rebuilt with engine.RestoreGame, which replays every
// ship through the placement rules. A file describing an impossible fleet
// fails to load instead of producing a corrupt match.
package session
