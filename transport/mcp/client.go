package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/memory-match-game/game/engine"
	"github.com/wricardo/memory-match-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Memory Match Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Memory Match Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Find every pair of matching icons. Flip two cards per move; a match stays
face-up, a mismatch is shown briefly and then turned face-down again.

AVAILABLE TOOLS:
- create_session: Create a new game session (config and mode optional)
- list_sessions: List all active sessions
- get_session: Get session details
- game_state: Show the board, counter and clock
- flip_card: Flip one card by id
- select_mode: Switch between "moves" and "timer" mode (starts a new game)
- restart_game: Start a new game in the current mode
- turn_history: View resolved turns
- list_configs: List available board configurations
- game_instructions: Get the full rules`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config and mode selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use, see list_configs (optional)",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(engine.MovesLimited), string(engine.TimeLimited)},
					"description": "Game mode (optional, defaults to the config's mode)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, counter, clock and outcome",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "flip_card",
		Description: "Flip a face-down card. The second flip of a move resolves the pair.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"card_id": map[string]interface{}{
					"type":        "integer",
					"description": "Card id as shown on the board (0-based)",
				},
			},
			Required: []string{"session_id", "card_id"},
		},
	}, c.handleFlipCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_mode",
		Description: "Select the game mode. Always starts a new game.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(engine.MovesLimited), string(engine.TimeLimited)},
					"description": "moves: limited number of moves, timer: limited time",
				},
			},
			Required: []string{"session_id", "mode"},
		},
	}, c.handleSelectMode)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Start a new shuffled game in the current mode",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "turn_history",
		Description: "Get the resolved turns of the current game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "asc: oldest first, desc: newest first (default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTurnHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the memory match game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}
	if mode := request.GetString("mode", ""); mode != "" {
		body["mode"] = mode
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nMode: %s\n\n%s",
		session.ID, session.ConfigName, session.Mode, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in progress"
		if s.GameState != nil && s.GameState.GameOver {
			status = string(s.GameState.Outcome)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Mode: %s, %s, Created: %s)\n",
			s.ID, s.ConfigName, s.Mode, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleFlipCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cardID, err := request.RequireInt("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.FlipResult
	body := map[string]int{"card_id": cardID}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/flip"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFlipResult(&result)), nil
}

func (c *Client) handleSelectMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := request.RequireString("mode")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/mode"), map[string]string{"mode": mode}, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/restart"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleTurnHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Pairs: %d, Move limit: %d, Time limit: %ds, Default mode: %s\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.Pairs, cfg.MoveLimit, cfg.TimeLimit, cfg.DefaultMode)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🃏 Memory Match Game - Complete Instructions

GAME OBJECTIVE:
The board holds every icon of the configuration exactly twice, shuffled and
face-down. Find all the pairs.

HOW A MOVE WORKS:
• Flip one face-down card with flip_card; its icon is revealed.
• Flip a second face-down card. The two cards are compared and one move is counted.
• Match: both cards stay face-up for the rest of the game.
• Mismatch: both cards are shown for a short delay, then turned face-down.
  The board is locked during the delay and flips are ignored.

GAME MODES (select_mode, always starts a new game):
• moves: you have a fixed number of moves. The counter shows the moves left.
  Using the last move ends the game, even if that move completes the board.
• timer: you have a fixed number of seconds. The counter shows the moves taken.
  The clock starts with the game and the game ends when it reaches 00:00.

IGNORED FLIPS (not errors, the game state is unchanged):
• Flipping while the board is locked
• Flipping a card that is already face-up or matched
• Flipping an id that is not on the board
• Flipping after the game is over

BOARD LEGEND (game_state):
• ##  face-down card
• 🍎  face-up card waiting for its pair
• [🍎] matched card

STRATEGY:
• Remember every icon you have seen, with its card id.
• When the first flip shows an icon you saw before, flip its known partner.
• Otherwise flip an unseen card; if it matches something you remember, you
  will know the pair for the next move.

VICTORY CONDITIONS:
• All pairs matched before running out of moves or time.

Good luck!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nMode: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Mode,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Mode: %s | %s | Clock: %s | Pairs: %d/%d\n",
		state.Mode, state.CounterText, state.ClockText, state.MatchedPairs, state.TotalPairs)
	if state.Locked && !state.GameOver {
		result.WriteString("Board locked: mismatched pair is being shown\n")
	}
	result.WriteString("\n")
	result.WriteString(formatBoard(state.Cards))

	if state.GameOver {
		switch state.Outcome {
		case engine.Win:
			fmt.Fprintf(&result, "\n🎉 %s\n", state.Message)
		default:
			fmt.Fprintf(&result, "\n💥 GAME OVER (%s): %s\n", state.Outcome, state.Message)
		}
		result.WriteString("Use restart_game or select_mode to play again.\n")
	}

	return result.String()
}

// formatBoard lays cards out in a near-square grid, each cell prefixed with its id
func formatBoard(cards []engine.Card) string {
	if len(cards) == 0 {
		return "(empty board)\n"
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(cards)))))
	width := len(fmt.Sprint(len(cards) - 1))

	var b strings.Builder
	for i, card := range cards {
		fmt.Fprintf(&b, "%*d:%-4s", width, card.ID, cardFace(card))
		if (i+1)%cols == 0 || i == len(cards)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func cardFace(card engine.Card) string {
	switch card.State {
	case engine.Matched:
		return "[" + string(card.Icon) + "]"
	case engine.Flipped:
		return string(card.Icon)
	}
	return "##"
}

func formatFlipResult(result *service.FlipResult) string {
	var b strings.Builder

	if result.Accepted {
		fmt.Fprintf(&b, "✓ Flipped card %d", result.CardID)
		if state := result.GameState; state != nil && int(result.CardID) < len(state.Cards) {
			if icon := state.Cards[result.CardID].Icon; icon != "" {
				fmt.Fprintf(&b, ": %s", icon)
			}
		}
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "✗ Flip of card %d ignored: %s\n", result.CardID, result.Message)
	}

	for _, ev := range result.Events {
		if ev.Type == service.EventGameOver {
			continue
		}
		if ev.Type == service.EventCardState && ev.Card != nil && ev.Card.State == engine.Matched {
			fmt.Fprintf(&b, "  match: card %d %s\n", ev.Card.ID, ev.Card.Icon)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Turn History (Page %d/%d) - Total turns: %d\n\n",
		history.Page, history.TotalPages, history.TotalTurns)

	if len(history.Turns) == 0 {
		b.WriteString("(no turns yet)\n")
		return b.String()
	}

	for _, turn := range history.Turns {
		status := "✗ mismatch"
		if turn.Matched {
			status = "✓ match"
		}
		fmt.Fprintf(&b, "%d. cards %d %s / %d %s %s [pairs: %d, moves: %d]\n",
			turn.Turn, turn.FirstCard, turn.FirstIcon, turn.SecondCard, turn.SecondIcon,
			status, turn.PairsMatched, turn.MovesAfter)
	}

	return b.String()
}
