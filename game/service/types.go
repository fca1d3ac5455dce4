package service

import (
	"time"

	"github.com/wricardo/memory-match-game/game/engine"
)

// Event types emitted by a SessionSurface
const (
	EventRenderBoard = "render_board"
	EventCardState   = "card_state"
	EventCounter     = "counter"
	EventClock       = "clock"
	EventGameOver    = "game_over"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Mode           engine.GameMode    `json:"mode"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// FlipResult contains the result of selecting a card
type FlipResult struct {
	Accepted  bool              `json:"accepted"`
	CardID    engine.CardID     `json:"card_id"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// GameEvent is one output command of the engine, as seen by clients
type GameEvent struct {
	Type      string         `json:"type"` // render_board, card_state, counter, clock, game_over
	Message   string         `json:"message,omitempty"`
	Outcome   engine.Outcome `json:"outcome,omitempty"`
	Card      *engine.Card   `json:"card,omitempty"`
	Cards     []engine.Card  `json:"cards,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// HistoryOptions configures turn history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated turn history
type HistoryResponse struct {
	Turns       []engine.TurnRecord `json:"turns"`
	TotalTurns  int                 `json:"total_turns"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string          `json:"filename"`
	ConfigID    string          `json:"config_id"` // The identifier to use for session creation
	Name        string          `json:"name"`      // Display name
	Description string          `json:"description"`
	Pairs       int             `json:"pairs"`
	MoveLimit   int             `json:"move_limit"`
	TimeLimit   int             `json:"time_limit_seconds"`
	DefaultMode engine.GameMode `json:"default_mode"`
}
