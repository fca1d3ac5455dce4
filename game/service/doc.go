// Package service provides the business logic layer for the memory match game.
//
// The service package implements:
//   - Multi-session game management
//   - Card selection, mode switching and restarts
//   - Turn history with pagination
//   - Configuration listing, loading and saving
//   - Conversion of engine output commands into client events
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
// Notifier pushes events to live clients; the websocket hub implements it.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns an engine whose Surface is a
// SessionSurface. The surface buffers the events produced by a request so they
// can be returned in the response, and publishes every event to the Notifier.
// Clock ticks and mismatch reveals happen between requests, so live clients
// only learn about them through the Notifier.
//
// Usage:
//
//	hub := websocket.NewHub()
//	sessionMgr := session.NewManagerWithNotifier(hub)
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", "timer")
//	if err != nil {
//		return err
//	}
//
//	result, err := gameService.FlipCard(ctx, info.ID, 3)
//
// Invalid selections are not errors. FlipCard reports them with
// Accepted=false and a human-readable reason.
package service
