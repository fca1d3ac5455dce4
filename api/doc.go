// Package api provides the HTTP REST API for the memory match game.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session {config_id, mode}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session and stop its clock
//
// Game:
//   - GET /api/sessions/{id}/state - Current board, counters and outcome
//   - POST /api/sessions/{id}/flip - Select a card {card_id}
//   - POST /api/sessions/{id}/mode - Switch mode {mode: "moves"|"timer"}, starts a new game
//   - POST /api/sessions/{id}/restart - Start a new game in the current mode
//   - GET /api/sessions/{id}/history - Resolved turns (?page&limit&order)
//
// Configuration:
//   - GET /api/configs - List board configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Save a configuration
//
// Other:
//   - GET /health
//   - GET /ws?session={id} - WebSocket event stream for a session
//
// A selection the game ignores (locked board, face-up card, finished game)
// is returned with 200 and accepted=false. Errors are JSON objects of the
// form {"error": "..."}; unknown sessions and configs map to 404, bad modes
// and invalid configs to 400.
//
// Every request passes through chi's RequestID, RealIP and Recoverer
// middleware and is logged with zerolog at debug level.
package api
