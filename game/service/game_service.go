package service

import (
	"context"
	"time"

	"github.com/wricardo/memory-match-game/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName, mode string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	FlipCard(ctx context.Context, sessionID string, cardID int) (*FlipResult, error)
	SelectMode(ctx context.Context, sessionID, mode string) (*engine.GameState, error)
	Restart(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetTurnHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, mode engine.GameMode) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig, mode engine.GameMode) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	AccessTimes(id string) (createdAt, lastAccessedAt time.Time, err error)
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Notifier pushes events to the clients watching a session
type Notifier interface {
	Publish(sessionID, event string, data interface{})
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Surface        *SessionSurface
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
