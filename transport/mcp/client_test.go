package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/memory-match-game/api"
	"github.com/wricardo/memory-match-game/game/config"
	"github.com/wricardo/memory-match-game/game/engine"
	"github.com/wricardo/memory-match-game/game/service"
	"github.com/wricardo/memory-match-game/game/session"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content in result")
	return text.Text
}

// newTestStack starts the real REST API with a manual clock so reveal
// delays only pass when the test advances time
func newTestStack(t *testing.T) (*Client, *engine.ManualClock) {
	t.Helper()

	configs, err := config.NewManager("../../configs")
	require.NoError(t, err)

	clk := engine.NewManualClock(time.Unix(0, 0))
	sessions := session.NewManager(session.WithClock(clk))
	t.Cleanup(sessions.CloseAll)

	ts := httptest.NewServer(api.NewServer(service.NewGameService(sessions, configs), nil))
	t.Cleanup(ts.Close)

	return NewClient(ts.URL), clk
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	require.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.GetMCPServer())
}

func TestClient_ToolsList(t *testing.T) {
	client := NewClient("http://localhost:8080")

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	response := client.GetMCPServer().HandleMessage(context.Background(), msg)

	data, err := json.Marshal(response)
	require.NoError(t, err)

	for _, name := range []string{
		"create_session", "list_sessions", "get_session", "game_state", "flip_card",
		"select_mode", "restart_game", "turn_history", "list_configs", "game_instructions",
	} {
		assert.Contains(t, string(data), `"`+name+`"`)
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions/ab12/state", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(engine.GameState{Moves: 7, CounterText: "Moves Left: 13"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var state engine.GameState
	require.NoError(t, client.apiCall(context.Background(), "GET", "/api/sessions/ab12/state", nil, &state))
	assert.Equal(t, 7, state.Moves)
	assert.Equal(t, "Moves Left: 13", state.CounterText)
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall(context.Background(), "GET", "/api", nil, nil)
	assert.Error(t, err)
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/api", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error")
}

func TestClient_apiCall_JSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"session not found: zzzz"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/api/sessions/zzzz", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "session not found: zzzz", err.Error())
}

func TestClient_CreateSessionAndPlay(t *testing.T) {
	client, clk := newTestStack(t)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, callRequest("create_session", map[string]interface{}{
		"config_id": "easy",
		"mode":      "moves",
	}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "Config: easy")
	assert.Contains(t, text, "Mode: moves")

	var sessionID string
	_, err = fmt.Sscanf(text, "Created session: %s", &sessionID)
	require.NoError(t, err)

	// Board of 4 pairs, all face-down
	result, err = client.handleGameState(ctx, callRequest("game_state", map[string]interface{}{"session_id": sessionID}))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Equal(t, 8, strings.Count(text, "##"))
	assert.Contains(t, text, "Pairs: 0/4")

	result, err = client.handleFlipCard(ctx, callRequest("flip_card", map[string]interface{}{
		"session_id": sessionID,
		"card_id":    float64(0),
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "✓ Flipped card 0")

	// Same card again is ignored, not an error
	result, err = client.handleFlipCard(ctx, callRequest("flip_card", map[string]interface{}{
		"session_id": sessionID,
		"card_id":    float64(0),
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "ignored")

	result, err = client.handleFlipCard(ctx, callRequest("flip_card", map[string]interface{}{
		"session_id": sessionID,
		"card_id":    float64(1),
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "✓ Flipped card 1")

	clk.Advance(2 * time.Second)

	result, err = client.handleTurnHistory(ctx, callRequest("turn_history", map[string]interface{}{
		"session_id": sessionID,
		"order":      "asc",
	}))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Contains(t, text, "Total turns: 1")
	assert.Contains(t, text, "1. cards 0")
}

func TestClient_SelectModeAndRestart(t *testing.T) {
	client, _ := newTestStack(t)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, callRequest("create_session", map[string]interface{}{}))
	require.NoError(t, err)
	var sessionID string
	_, err = fmt.Sscanf(resultText(t, result), "Created session: %s", &sessionID)
	require.NoError(t, err)

	result, err = client.handleSelectMode(ctx, callRequest("select_mode", map[string]interface{}{
		"session_id": sessionID,
		"mode":       "timer",
	}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "Mode: timer")
	assert.Contains(t, text, "Clock: 01:00")

	result, err = client.handleSelectMode(ctx, callRequest("select_mode", map[string]interface{}{
		"session_id": sessionID,
		"mode":       "endless",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = client.handleRestart(ctx, callRequest("restart_game", map[string]interface{}{"session_id": sessionID}))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Contains(t, text, "Game restarted")
	assert.Contains(t, text, "Moves: 0")
}

func TestClient_SessionsAndConfigs(t *testing.T) {
	client, _ := newTestStack(t)
	ctx := context.Background()

	_, err := client.handleCreateSession(ctx, callRequest("create_session", map[string]interface{}{"config_id": "blitz"}))
	require.NoError(t, err)

	result, err := client.handleListSessions(ctx, callRequest("list_sessions", nil))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "Active Sessions (1)")
	assert.Contains(t, text, "Config: blitz")

	result, err = client.handleListConfigs(ctx, callRequest("list_configs", nil))
	require.NoError(t, err)
	text = resultText(t, result)
	for _, id := range []string{"classic", "easy", "blitz"} {
		assert.Contains(t, text, "config_id: "+id)
	}

	result, err = client.handleGetSession(ctx, callRequest("get_session", map[string]interface{}{"session_id": "zzzz"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not found")

	result, err = client.handleGetSession(ctx, callRequest("get_session", map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestFormatGameState(t *testing.T) {
	state := &engine.GameState{
		Mode: engine.MovesLimited,
		Cards: []engine.Card{
			{ID: 0, State: engine.Hidden},
			{ID: 1, Icon: "🍎", State: engine.Flipped},
			{ID: 2, Icon: "🍌", State: engine.Matched},
			{ID: 3, Icon: "🍌", State: engine.Matched},
		},
		CounterText:  "17 Moves Left",
		ClockText:    "00:00",
		MatchedPairs: 1,
		TotalPairs:   2,
	}

	text := formatGameState(state)

	assert.Contains(t, text, "17 Moves Left")
	assert.Contains(t, text, "Pairs: 1/2")
	assert.Contains(t, text, "0:##")
	assert.Contains(t, text, "1:🍎")
	assert.Contains(t, text, "2:[🍌]")

	// 4 cards form a 2x2 grid
	rows := strings.Split(strings.TrimSpace(formatBoard(state.Cards)), "\n")
	assert.Len(t, rows, 2)
}

func TestFormatGameState_GameOver(t *testing.T) {
	text := formatGameState(&engine.GameState{
		GameOver: true,
		Outcome:  engine.OutOfMoves,
		Message:  "Out of moves!",
	})
	assert.Contains(t, text, "GAME OVER (out_of_moves): Out of moves!")
	assert.Contains(t, text, "restart_game")

	text = formatGameState(&engine.GameState{
		GameOver: true,
		Outcome:  engine.Win,
		Message:  "You found all the pairs!",
	})
	assert.Contains(t, text, "🎉 You found all the pairs!")

	assert.Equal(t, "No game state available", formatGameState(nil))
}

func TestFormatHistory(t *testing.T) {
	text := formatHistory(&service.HistoryResponse{
		Turns: []engine.TurnRecord{
			{Turn: 2, FirstCard: 3, SecondCard: 5, FirstIcon: "🍇", SecondIcon: "🍇", Matched: true, PairsMatched: 1, MovesAfter: 2},
			{Turn: 1, FirstCard: 0, SecondCard: 1, FirstIcon: "🍎", SecondIcon: "🍌", MovesAfter: 1},
		},
		TotalTurns: 2,
		Page:       1,
		TotalPages: 1,
	})

	assert.Contains(t, text, "Total turns: 2")
	assert.Contains(t, text, "2. cards 3 🍇 / 5 🍇 ✓ match")
	assert.Contains(t, text, "1. cards 0 🍎 / 1 🍌 ✗ mismatch")

	assert.Contains(t, formatHistory(&service.HistoryResponse{Page: 1, TotalPages: 1}), "(no turns yet)")
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callRequest("game_instructions", nil))
	require.NoError(t, err)

	text := resultText(t, result)
	for _, section := range []string{
		"Memory Match Game - Complete Instructions",
		"GAME OBJECTIVE:",
		"HOW A MOVE WORKS:",
		"GAME MODES",
		"IGNORED FLIPS",
		"BOARD LEGEND",
		"VICTORY CONDITIONS:",
	} {
		assert.Contains(t, text, section)
	}
}
