package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/memory-match-game/game/engine"
)

var (
	// ErrInvalidMode is returned for a mode other than "moves" or "timer"
	ErrInvalidMode = engine.ErrInvalidMode
	// ErrConfigUnavailable is returned when a session names a config that cannot be loaded
	ErrConfigUnavailable = errors.New("config unavailable")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session. An empty mode uses the config's default mode.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName, mode string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: config '%s' not found. Available configs: %v", ErrConfigUnavailable, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: config '%s' not found. Use /api/configs to list available configurations", ErrConfigUnavailable, configName)
			}
			return nil, fmt.Errorf("%w: failed to load config %s: %v", ErrConfigUnavailable, configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	gameMode := config.DefaultMode
	if mode != "" {
		if gameMode, err = engine.ParseMode(mode); err != nil {
			return nil, err
		}
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config, gameMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Info().
		Str("session", session.ID).
		Str("config", configID).
		Str("mode", string(gameMode)).
		Msg("session created")

	info := s.sessionInfo(session)
	info.ConfigName = configID
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session and stops its game clock
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// FlipCard selects a card. A rejected selection is not an error: the result
// reports Accepted=false and the unchanged state.
func (s *gameServiceImpl) FlipCard(ctx context.Context, sessionID string, cardID int) (*FlipResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	// Events from clock ticks since the last request were already pushed to live clients
	sess.Surface.Drain()

	accepted := sess.Engine.HandleSelection(engine.CardID(cardID))
	state := sess.Engine.GetState()

	result := &FlipResult{
		Accepted:  accepted,
		CardID:    engine.CardID(cardID),
		GameState: state,
		Events:    sess.Surface.Drain(),
	}

	switch {
	case state.GameOver && accepted:
		result.Message = state.Message
	case accepted:
		result.Message = state.CounterText
	default:
		result.Message = rejectionReason(state, cardID)
	}

	log.Debug().
		Str("session", sessionID).
		Int("card", cardID).
		Bool("accepted", accepted).
		Int("moves", state.Moves).
		Msg("card flip")

	return result, nil
}

// SelectMode switches the session's mode, which always starts a new game
func (s *gameServiceImpl) SelectMode(ctx context.Context, sessionID, mode string) (*engine.GameState, error) {
	gameMode, err := engine.ParseMode(mode)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if err := sess.Engine.SelectMode(gameMode); err != nil {
		return nil, err
	}
	sess.Surface.Drain()

	log.Info().Str("session", sessionID).Str("mode", mode).Msg("mode selected")
	return sess.Engine.GetState(), nil
}

// Restart starts a new game in the session's current mode
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.Restart()
	sess.Surface.Drain()

	log.Info().Str("session", sessionID).Str("game", state.GameID).Msg("game restarted")
	return state, nil
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetTurnHistory returns paginated turn history of the current game
func (s *gameServiceImpl) GetTurnHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetTurnHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	turns := []engine.TurnRecord{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				turns = append(turns, history[i])
			}
		} else {
			turns = append(turns, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Turns:       turns,
		TotalTurns:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	state := sess.Engine.GetState()
	// Timestamps are written under the session manager's lock
	createdAt, lastAccessedAt, _ := s.sessions.AccessTimes(sess.ID)
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name), // Return config_id consistently
		Mode:           state.Mode,
		CreatedAt:      createdAt,
		LastAccessedAt: lastAccessedAt,
		GameState:      state,
		GameConfig:     sess.Config,
	}
}

// rejectionReason explains why a selection was ignored
func rejectionReason(state *engine.GameState, cardID int) string {
	switch {
	case state.GameOver:
		return "game is over, restart to play again"
	case cardID < 0 || cardID >= len(state.Cards):
		return fmt.Sprintf("card %d does not exist", cardID)
	case state.Locked:
		return "board is locked while a mismatched pair is shown"
	case state.Cards[cardID].State != engine.Hidden:
		return fmt.Sprintf("card %d is already %s", cardID, state.Cards[cardID].State)
	}
	return "selection ignored"
}
