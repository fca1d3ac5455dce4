package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultIcons is the reference fruit alphabet
var DefaultIcons = []Icon{"🍎", "🍌", "🍇", "🍉", "🍓", "🍍", "🥝", "🍒"}

// DefaultMessages are the texts used when a config leaves them empty
var DefaultMessages = Messages{
	Win:        "You won!",
	OutOfMoves: "You are out of moves!",
	TimesUp:    "Time's up!",
	MovesLeft:  "%d Moves Left",
	MovesTaken: "Moves: %d",
}

// DefaultConfig returns the classic eight-pair game
func DefaultConfig() *GameConfig {
	icons := make([]Icon, len(DefaultIcons))
	copy(icons, DefaultIcons)

	return &GameConfig{
		Name:             "Classic",
		Description:      "Eight fruit pairs, 20 moves or 60 seconds",
		Icons:            icons,
		MoveLimit:        DefaultMoveLimit,
		TimeLimitSeconds: DefaultTimeLimit,
		RevealDelayMs:    DefaultRevealDelayMs,
		TickIntervalMs:   DefaultTickMs,
		DefaultMode:      MovesLimited,
		Messages:         DefaultMessages,
	}
}

// ApplyDefaults fills zero-valued optional fields
func ApplyDefaults(config *GameConfig) {
	if config.MoveLimit == 0 {
		config.MoveLimit = DefaultMoveLimit
	}
	if config.TimeLimitSeconds == 0 {
		config.TimeLimitSeconds = DefaultTimeLimit
	}
	if config.RevealDelayMs == 0 {
		config.RevealDelayMs = DefaultRevealDelayMs
	}
	if config.TickIntervalMs == 0 {
		config.TickIntervalMs = DefaultTickMs
	}
	if config.DefaultMode == "" {
		config.DefaultMode = MovesLimited
	}

	m := &config.Messages
	if m.Win == "" {
		m.Win = DefaultMessages.Win
	}
	if m.OutOfMoves == "" {
		m.OutOfMoves = DefaultMessages.OutOfMoves
	}
	if m.TimesUp == "" {
		m.TimesUp = DefaultMessages.TimesUp
	}
	if m.MovesLeft == "" {
		m.MovesLeft = DefaultMessages.MovesLeft
	}
	if m.MovesTaken == "" {
		m.MovesTaken = DefaultMessages.MovesTaken
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate icon alphabet
	if len(config.Icons) < MinIcons || len(config.Icons) > MaxIcons {
		return fmt.Errorf("config validation: icons must have between %d and %d entries, got %d", MinIcons, MaxIcons, len(config.Icons))
	}
	seen := make(map[Icon]bool, len(config.Icons))
	for i, icon := range config.Icons {
		if strings.TrimSpace(string(icon)) == "" {
			return fmt.Errorf("config validation: icon %d is empty", i+1)
		}
		if seen[icon] {
			return fmt.Errorf("config validation: icon '%s' is listed twice", icon)
		}
		seen[icon] = true
	}

	// Validate limits
	if config.MoveLimit < 1 || config.MoveLimit > MaxMoveLimit {
		return fmt.Errorf("config validation: move_limit must be between 1 and %d, got %d", MaxMoveLimit, config.MoveLimit)
	}
	if config.TimeLimitSeconds < 1 || config.TimeLimitSeconds > MaxTimeLimit {
		return fmt.Errorf("config validation: time_limit_seconds must be between 1 and %d, got %d", MaxTimeLimit, config.TimeLimitSeconds)
	}
	if config.RevealDelayMs < MinIntervalMillis {
		return fmt.Errorf("config validation: reveal_delay_ms must be at least %d, got %d", MinIntervalMillis, config.RevealDelayMs)
	}
	if config.TickIntervalMs < MinIntervalMillis {
		return fmt.Errorf("config validation: tick_interval_ms must be at least %d, got %d", MinIntervalMillis, config.TickIntervalMs)
	}

	switch config.DefaultMode {
	case MovesLimited, TimeLimited:
	default:
		return fmt.Errorf("config validation: default_mode must be '%s' or '%s', got '%s'", MovesLimited, TimeLimited, config.DefaultMode)
	}

	// Validate messages
	if config.Messages.Win == "" {
		return fmt.Errorf("config validation: messages.win is required")
	}
	if config.Messages.OutOfMoves == "" {
		return fmt.Errorf("config validation: messages.out_of_moves is required")
	}
	if config.Messages.TimesUp == "" {
		return fmt.Errorf("config validation: messages.times_up is required")
	}

	// Validate format strings
	if err := validateCounterFormat("moves_left", "remaining moves", config.Messages.MovesLeft); err != nil {
		return err
	}
	if err := validateCounterFormat("moves_taken", "moves taken", config.Messages.MovesTaken); err != nil {
		return err
	}

	return nil
}

// validateCounterFormat requires a format that renders one int and nothing else
func validateCounterFormat(field, what, format string) error {
	if !strings.Contains(format, "%d") {
		return fmt.Errorf("config validation: messages.%s must contain %%d for %s", field, what)
	}
	if rendered := fmt.Sprintf(format, 0); strings.Contains(rendered, "%!") {
		return fmt.Errorf("config validation: messages.%s must use exactly one %%d and no other verbs, renders %q", field, rendered)
	}
	return nil
}

// ParseGameConfig decodes JSON, fills defaults and validates the result
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	ApplyDefaults(&config)

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	return ParseGameConfig(data)
}

// LoadConfigByName loads a game configuration by name from a config directory.
// An empty dir means "configs".
func LoadConfigByName(dir, configName string) (*GameConfig, error) {
	if dir == "" {
		dir = "configs"
	}
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join(dir, configName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configName, err)
	}

	config, err := ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}

	return config, nil
}
