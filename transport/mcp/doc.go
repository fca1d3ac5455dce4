// Package mcp exposes the memory match game to AI agents over the Model
// Context Protocol.
//
// Client is a thin proxy: every tool call becomes a request to the REST API,
// so an agent sees exactly the sessions a browser sees.
//
// MCP Tools:
//   - create_session: Create a session with optional config_id and mode
//   - list_sessions: List all active sessions
//   - get_session: Get one session with its board
//   - game_state: Board, counter, clock and outcome
//   - flip_card: Flip a card by id
//   - select_mode: Switch between moves and timer mode (new game)
//   - restart_game: New game in the current mode
//   - turn_history: Resolved turns with pagination
//   - list_configs: Available board configurations
//   - game_instructions: Full rules
//
// Boards are rendered as text, one cell per card: "##" for a face-down card,
// the icon for a face-up card and "[icon]" for a matched one.
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: the server binary mounts the MCP server at /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal().Err(err).Msg("mcp stdio server failed")
//	}
package mcp
