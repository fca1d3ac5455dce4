// Package websocket pushes live game events to browser clients.
//
// A central Hub owns every connection. Clients join a session with
// /ws?session=<id>; the hub fans each published event out only to the
// clients of that session. Incoming frames are read for keepalive and
// otherwise ignored, since moves go through the REST API.
//
// Outgoing messages are JSON:
//
//	{"session_id": "ab12", "event": "card_state", "data": {"id": 3, "state": "flipped", "icon": "🍎"}}
//
// Event names match the service package constants (render_board,
// card_state, counter, clock, game_over). BroadcastToSession sends a full
// state snapshot with the state_update event.
//
// Publish never blocks: when the hub queue is full the message is dropped
// and logged. A client whose send buffer is full is disconnected.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	sessions := session.NewManagerWithNotifier(hub)
package websocket
