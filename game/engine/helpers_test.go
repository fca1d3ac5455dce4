package engine

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type endSignal struct {
	Outcome Outcome
	Message string
}

// recordingSurface captures every output command
type recordingSurface struct {
	mu       sync.Mutex
	boards   [][]Card
	cards    []Card
	counters []string
	clocks   []string
	ends     []endSignal
}

func (s *recordingSurface) RenderBoard(cards []Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards = append(s.boards, cards)
}

func (s *recordingSurface) SetCardVisualState(card Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = append(s.cards, card)
}

func (s *recordingSurface) SetCounterText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = append(s.counters, text)
}

func (s *recordingSurface) SetClockText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clocks = append(s.clocks, text)
}

func (s *recordingSurface) ShowEndGameMessage(outcome Outcome, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ends = append(s.ends, endSignal{outcome, message})
}

func (s *recordingSurface) endSignals() []endSignal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]endSignal(nil), s.ends...)
}

func (s *recordingSurface) clockTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.clocks...)
}

func (s *recordingSurface) lastCounter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.counters) == 0 {
		return ""
	}
	return s.counters[len(s.counters)-1]
}

// stateChanges returns every visual state sent for one card
func (s *recordingSurface) stateChanges(id CardID) []CardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []CardState
	for _, c := range s.cards {
		if c.ID == id {
			out = append(out, c.State)
		}
	}
	return out
}

func createTestConfig(pairs int) *GameConfig {
	icons := make([]Icon, pairs)
	for i := range icons {
		icons[i] = Icon(fmt.Sprintf("icon-%d", i))
	}
	config := &GameConfig{
		Name:        "Engine Test Config",
		Description: "Configuration for engine tests",
		Icons:       icons,
	}
	ApplyDefaults(config)
	return config
}

type testGame struct {
	engine  *GameEngine
	surface *recordingSurface
	clock   *ManualClock
}

func newTestGame(t *testing.T, config *GameConfig, opts ...Option) *testGame {
	t.Helper()

	surface := &recordingSurface{}
	clk := NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	all := append([]Option{
		WithSurface(surface),
		WithClock(clk),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}, opts...)

	e, err := NewEngine(config, all...)
	require.NoError(t, err)
	t.Cleanup(e.Close)

	return &testGame{engine: e, surface: surface, clock: clk}
}

// pairIDs returns the two card ids of every icon on the live board
func (g *testGame) pairIDs() [][2]CardID {
	g.engine.mu.Lock()
	defer g.engine.mu.Unlock()

	byIcon := make(map[Icon][]CardID)
	var order []Icon
	for _, c := range g.engine.cards {
		if _, ok := byIcon[c.Icon]; !ok {
			order = append(order, c.Icon)
		}
		byIcon[c.Icon] = append(byIcon[c.Icon], c.ID)
	}

	pairs := make([][2]CardID, 0, len(order))
	for _, icon := range order {
		ids := byIcon[icon]
		pairs = append(pairs, [2]CardID{ids[0], ids[1]})
	}
	return pairs
}

// mismatch returns two ids that hold different icons
func (g *testGame) mismatch() (CardID, CardID) {
	pairs := g.pairIDs()
	return pairs[0][0], pairs[1][0]
}

func (g *testGame) flipPair(t *testing.T, a, b CardID) {
	t.Helper()
	require.True(t, g.engine.HandleSelection(a), "first selection of %d rejected", a)
	require.True(t, g.engine.HandleSelection(b), "second selection of %d rejected", b)
}
