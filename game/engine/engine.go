package engine

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidMode is returned when a mode other than moves or timer is requested
	ErrInvalidMode = errors.New("invalid game mode")
	// ErrEngineClosed is returned by operations on a closed engine
	ErrEngineClosed = errors.New("engine closed")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Input events
	HandleSelection(id CardID) bool
	SelectMode(mode GameMode) error
	Restart() *GameState

	// Game state
	GetState() *GameState
	GetConfig() *GameConfig
	Mode() GameMode
	IsGameOver() bool
	Outcome() Outcome
	MatchedPairs() int

	// History
	GetTurnHistory() []TurnRecord

	Close()
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithSurface sets the surface that receives output commands
func WithSurface(s Surface) Option {
	return func(e *GameEngine) {
		if s != nil {
			e.surface = s
		}
	}
}

// WithClock sets the clock used for ticks and reveal delays
func WithClock(c Clock) Option {
	return func(e *GameEngine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithRand sets the shuffle source
func WithRand(r *rand.Rand) Option {
	return func(e *GameEngine) {
		e.rng = r
	}
}

// WithMode overrides the config's default mode for the first game
func WithMode(m GameMode) Option {
	return func(e *GameEngine) {
		if m != "" {
			e.mode = m
		}
	}
}

// GameEngine implements the Engine interface. All fields are guarded by mu;
// timer callbacks take mu and compare their generation before touching state.
type GameEngine struct {
	mu sync.Mutex

	config  *GameConfig
	surface Surface
	clock   Clock
	rng     *rand.Rand
	mode    GameMode

	gameID     string
	generation uint64
	startedAt  time.Time

	cards  []Card
	first  *CardID
	second *CardID

	moves    int
	timeLeft int
	matched  int
	locked   bool
	outcome  Outcome
	message  string
	counter  string
	clockTxt string
	history  []TurnRecord

	stopTick     CancelFunc
	cancelReveal CancelFunc
	closed       bool
}

// NewEngine creates a new game engine with the provided configuration and
// starts the first game.
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:  config,
		surface: NopSurface{},
		mode:    config.DefaultMode,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = NewSystemClock(nil)
	}
	if _, err := ParseMode(string(e.mode)); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.restartLocked()
	e.mu.Unlock()

	return e, nil
}

// Restart discards the board and starts a new game in the current mode
func (e *GameEngine) Restart() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return e.snapshotLocked()
	}
	e.restartLocked()
	return e.snapshotLocked()
}

// SelectMode switches the game mode and restarts, even when the mode is unchanged
func (e *GameEngine) SelectMode(mode GameMode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	e.mode = mode
	e.moves = 0
	e.setCounterLocked()
	e.restartLocked()
	return nil
}

// GetState returns a snapshot of the current game. Icons of hidden cards are masked.
func (e *GameEngine) GetState() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// GetConfig returns the engine configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// Mode returns the active game mode
func (e *GameEngine) Mode() GameMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// IsGameOver returns whether the current game has ended
func (e *GameEngine) IsGameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outcome != InProgress
}

// Outcome returns how the current game ended, or InProgress
func (e *GameEngine) Outcome() Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outcome
}

// MatchedPairs returns the number of pairs found in the current game
func (e *GameEngine) MatchedPairs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matched
}

// GetTurnHistory returns the resolved pairs of the current game
func (e *GameEngine) GetTurnHistory() []TurnRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	history := make([]TurnRecord, len(e.history))
	copy(history, e.history)
	return history
}

// Close stops all timers. The engine ignores input afterwards.
func (e *GameEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.generation++
	e.stopTimerLocked()
	if e.cancelReveal != nil {
		e.cancelReveal()
		e.cancelReveal = nil
	}
}

// restartLocked is initializeGame: fresh board, counters and clock for the active mode
func (e *GameEngine) restartLocked() {
	e.generation++
	e.gameID = uuid.NewString()
	e.startedAt = e.clock.Now()

	if e.cancelReveal != nil {
		e.cancelReveal()
		e.cancelReveal = nil
	}

	e.cards = nil
	e.first, e.second = nil, nil
	e.moves = 0
	e.matched = 0
	e.outcome = InProgress
	e.message = ""
	e.history = nil
	e.setCounterLocked()
	e.locked = false

	if e.mode == TimeLimited {
		e.stopTimerLocked()
		e.timeLeft = e.config.TimeLimitSeconds
		e.setClockLocked(FormatClock(e.timeLeft))
		e.startTimerLocked()
	} else {
		e.stopTimerLocked()
		e.timeLeft = 0
		e.setClockLocked(FormatClock(0))
	}

	e.cards = newBoard(e.config.Icons, e.rng)
	e.surface.RenderBoard(maskedBoard(e.cards))
}

func (e *GameEngine) setCounterLocked() {
	e.counter = CounterText(e.config, e.mode, e.moves)
	e.surface.SetCounterText(e.counter)
}

func (e *GameEngine) setClockLocked(text string) {
	e.clockTxt = text
	e.surface.SetClockText(text)
}

func (e *GameEngine) snapshotLocked() *GameState {
	state := &GameState{
		GameID:       e.gameID,
		Generation:   e.generation,
		ConfigName:   e.config.Name,
		Mode:         e.mode,
		Cards:        maskedBoard(e.cards),
		Moves:        e.moves,
		MoveLimit:    e.config.MoveLimit,
		TimeLimit:    e.config.TimeLimitSeconds,
		TimeLeft:     e.timeLeft,
		ClockRunning: e.stopTick != nil,
		Locked:       e.locked,
		GameOver:     e.outcome != InProgress,
		Outcome:      e.outcome,
		Message:      e.message,
		CounterText:  e.counter,
		ClockText:    e.clockTxt,
		MatchedPairs: e.matched,
		TotalPairs:   len(e.config.Icons),
		StartedAt:    e.startedAt,
	}
	if e.mode == MovesLimited {
		state.MovesLeft = e.config.MoveLimit - e.moves
	}
	if e.first != nil {
		id := *e.first
		state.FirstCard = &id
	}
	if e.second != nil {
		id := *e.second
		state.SecondCard = &id
	}
	if len(e.history) > 0 {
		state.History = make([]TurnRecord, len(e.history))
		copy(state.History, e.history)
	}
	return state
}
