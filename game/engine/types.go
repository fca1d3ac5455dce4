package engine

import "time"

// Icon is the face value printed on a card. Two cards on a board share each icon.
type Icon string

// CardID identifies a card slot on the current board
type CardID int

// CardState represents the visual state of a card
type CardState string

const (
	Hidden  CardState = "hidden"
	Flipped CardState = "flipped"
	Matched CardState = "matched"
)

// GameMode selects the losing condition other than running out of pairs
type GameMode string

const (
	MovesLimited GameMode = "moves"
	TimeLimited  GameMode = "timer"
)

// Outcome describes how a game ended
type Outcome string

const (
	InProgress Outcome = ""
	Win        Outcome = "win"
	OutOfMoves Outcome = "out_of_moves"
	TimesUp    Outcome = "times_up"
)

const (
	// Validation constants
	MinIcons          = 1
	MaxIcons          = 32
	MaxMoveLimit      = 1000
	MaxTimeLimit      = 3600
	MinIntervalMillis = 10

	DefaultMoveLimit     = 20
	DefaultTimeLimit     = 60
	DefaultRevealDelayMs = 1000
	DefaultTickMs        = 1000
)

// Card represents a single card slot on the board
type Card struct {
	ID    CardID    `json:"id"`
	Icon  Icon      `json:"icon,omitempty"`
	State CardState `json:"state"`
}

// Messages holds the user-facing texts of a configuration
type Messages struct {
	Win        string `json:"win"`
	OutOfMoves string `json:"out_of_moves"`
	TimesUp    string `json:"times_up"`
	MovesLeft  string `json:"moves_left"`  // MovesLimited counter, must contain %d
	MovesTaken string `json:"moves_taken"` // TimeLimited counter, must contain %d
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Icons            []Icon   `json:"icons"`
	MoveLimit        int      `json:"move_limit"`
	TimeLimitSeconds int      `json:"time_limit_seconds"`
	RevealDelayMs    int      `json:"reveal_delay_ms"`
	TickIntervalMs   int      `json:"tick_interval_ms"`
	DefaultMode      GameMode `json:"default_mode"`
	Messages         Messages `json:"messages"`
}

// RevealDelay returns how long a mismatched pair stays face-up
func (c *GameConfig) RevealDelay() time.Duration {
	return time.Duration(c.RevealDelayMs) * time.Millisecond
}

// TickInterval returns the clock tick period
func (c *GameConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// BoardSize returns the number of cards dealt for this configuration
func (c *GameConfig) BoardSize() int {
	return 2 * len(c.Icons)
}

// TurnRecord is one resolved pair in the current game
type TurnRecord struct {
	Turn         int    `json:"turn"`
	FirstCard    CardID `json:"first_card"`
	SecondCard   CardID `json:"second_card"`
	FirstIcon    Icon   `json:"first_icon"`
	SecondIcon   Icon   `json:"second_icon"`
	Matched      bool   `json:"matched"`
	MovesAfter   int    `json:"moves_after"`
	TimeLeft     int    `json:"time_left,omitempty"`
	PairsMatched int    `json:"pairs_matched"`
	Timestamp    int64  `json:"timestamp"`
}

// GameState is a point-in-time snapshot of an engine. Icons of hidden cards are masked.
type GameState struct {
	GameID       string       `json:"game_id"`
	Generation   uint64       `json:"generation"`
	ConfigName   string       `json:"config_name"`
	Mode         GameMode     `json:"mode"`
	Cards        []Card       `json:"cards"`
	FirstCard    *CardID      `json:"first_card,omitempty"`
	SecondCard   *CardID      `json:"second_card,omitempty"`
	Moves        int          `json:"moves"`
	MoveLimit    int          `json:"move_limit"`
	MovesLeft    int          `json:"moves_left,omitempty"`
	TimeLimit    int          `json:"time_limit"`
	TimeLeft     int          `json:"time_left"`
	ClockRunning bool         `json:"clock_running"`
	Locked       bool         `json:"locked"`
	GameOver     bool         `json:"game_over"`
	Outcome      Outcome      `json:"outcome,omitempty"`
	Message      string       `json:"message,omitempty"`
	CounterText  string       `json:"counter_text"`
	ClockText    string       `json:"clock_text"`
	MatchedPairs int          `json:"matched_pairs"`
	TotalPairs   int          `json:"total_pairs"`
	StartedAt    time.Time    `json:"started_at"`
	History      []TurnRecord `json:"history,omitempty"`
}
