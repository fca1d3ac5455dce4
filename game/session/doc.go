// Package session provides session management for the memory match game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management, including stopping game clocks
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns one engine, wired to a service.SessionSurface
// so that engine output reaches the session's live clients through the
// manager's Notifier.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive. Generated IDs come from crypto/rand and are retried
// until unused.
//
// Usage:
//
//	manager := session.NewManagerWithNotifier(hub)
//
//	sess, err := manager.Create("", config, engine.MovesLimited)
//	if err != nil {
//		return err
//	}
//
//	sess, err = manager.Get(sessionID)
//	sessions := manager.List()
//
// Cleanup:
//
// Deleting or expiring a session closes its engine, which cancels the
// pending clock tick and mismatch reveal. Game state is never written to
// disk; a session lives only as long as the process.
package session
