package engine

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShuffledIcons_PairedPermutation(t *testing.T) {
	icons := DefaultIcons
	for seed := uint64(0); seed < 50; seed++ {
		deck := CreateShuffledIcons(icons, rand.New(rand.NewPCG(seed, seed+1)))
		require.Len(t, deck, 2*len(icons))

		counts := make(map[Icon]int)
		for _, icon := range deck {
			counts[icon]++
		}
		require.Len(t, counts, len(icons))
		for _, icon := range icons {
			assert.Equal(t, 2, counts[icon], "seed %d icon %s", seed, icon)
		}
	}
}

func TestCreateShuffledIcons_OrderVaries(t *testing.T) {
	first := CreateShuffledIcons(DefaultIcons, rand.New(rand.NewPCG(1, 1)))
	differs := false
	for seed := uint64(2); seed < 20 && !differs; seed++ {
		next := CreateShuffledIcons(DefaultIcons, rand.New(rand.NewPCG(seed, seed)))
		differs = !assert.ObjectsAreEqual(first, next)
	}
	assert.True(t, differs, "expected different seeds to produce different orders")
}

func TestCreateShuffledIcons_NilRand(t *testing.T) {
	deck := CreateShuffledIcons([]Icon{"x", "y"}, nil)
	assert.ElementsMatch(t, []Icon{"x", "x", "y", "y"}, deck)
}

func TestNewEngine_MovesMode(t *testing.T) {
	g := newTestGame(t, createTestConfig(8))
	state := g.engine.GetState()

	assert.Equal(t, MovesLimited, state.Mode)
	assert.Len(t, state.Cards, 16)
	for _, c := range state.Cards {
		assert.Equal(t, Hidden, c.State)
		assert.Empty(t, c.Icon, "hidden icons must be masked")
	}
	assert.Equal(t, 0, state.Moves)
	assert.Equal(t, 20, state.MovesLeft)
	assert.Equal(t, "20 Moves Left", state.CounterText)
	assert.Equal(t, "00:00", state.ClockText)
	assert.False(t, state.ClockRunning)
	assert.False(t, state.Locked)
	assert.False(t, state.GameOver)
	assert.NotEmpty(t, state.GameID)
	assert.Equal(t, 8, state.TotalPairs)

	require.Len(t, g.surface.boards, 1)
	assert.Len(t, g.surface.boards[0], 16)
}

func TestNewEngine_TimerMode(t *testing.T) {
	g := newTestGame(t, createTestConfig(8), WithMode(TimeLimited))
	state := g.engine.GetState()

	assert.Equal(t, TimeLimited, state.Mode)
	assert.Equal(t, "Moves: 0", state.CounterText)
	assert.Equal(t, "01:00", state.ClockText)
	assert.Equal(t, 60, state.TimeLeft)
	assert.True(t, state.ClockRunning)
	assert.Equal(t, 1, g.clock.Pending())
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig(4)
	config.Name = ""

	_, err := NewEngine(config)
	assert.Error(t, err)
}

func TestNewEngine_InvalidMode(t *testing.T) {
	_, err := NewEngine(createTestConfig(4), WithMode("sudden-death"))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestHandleSelection_SameCardTwice(t *testing.T) {
	g := newTestGame(t, createTestConfig(8))

	assert.True(t, g.engine.HandleSelection(3))
	assert.False(t, g.engine.HandleSelection(3), "re-selecting a flipped card must be ignored")

	state := g.engine.GetState()
	require.NotNil(t, state.FirstCard)
	assert.Equal(t, CardID(3), *state.FirstCard)
	assert.Nil(t, state.SecondCard)
	assert.Equal(t, 0, state.Moves)
	assert.Equal(t, 0, state.MatchedPairs)
}

func TestHandleSelection_UnknownCard(t *testing.T) {
	g := newTestGame(t, createTestConfig(2))

	assert.False(t, g.engine.HandleSelection(-1))
	assert.False(t, g.engine.HandleSelection(4))
	assert.Equal(t, 0, g.engine.GetState().Moves)
}

func TestHandleSelection_Match(t *testing.T) {
	g := newTestGame(t, createTestConfig(8))
	pair := g.pairIDs()[0]

	g.flipPair(t, pair[0], pair[1])

	state := g.engine.GetState()
	assert.Equal(t, Matched, state.Cards[pair[0]].State)
	assert.Equal(t, Matched, state.Cards[pair[1]].State)
	assert.NotEmpty(t, state.Cards[pair[0]].Icon, "matched icons are visible")
	assert.Nil(t, state.FirstCard)
	assert.Nil(t, state.SecondCard)
	assert.False(t, state.Locked)
	assert.Equal(t, 1, state.Moves)
	assert.Equal(t, 1, state.MatchedPairs)
	assert.Equal(t, "19 Moves Left", g.surface.lastCounter())

	// Matched cards cannot be selected again
	assert.False(t, g.engine.HandleSelection(pair[0]))
}

func TestMismatch_RevertsOnceAfterDelay(t *testing.T) {
	g := newTestGame(t, createTestConfig(8))
	a, b := g.mismatch()
	pairs := g.pairIDs()
	other := pairs[2][0]

	g.flipPair(t, a, b)

	state := g.engine.GetState()
	assert.True(t, state.Locked)
	assert.Equal(t, Flipped, state.Cards[a].State)
	assert.Equal(t, Flipped, state.Cards[b].State)
	assert.Equal(t, 1, state.Moves)

	// Input is rejected during the reveal delay
	assert.False(t, g.engine.HandleSelection(other))

	g.clock.Advance(999 * time.Millisecond)
	assert.Equal(t, Flipped, g.engine.GetState().Cards[a].State)

	g.clock.Advance(time.Millisecond)
	state = g.engine.GetState()
	assert.Equal(t, Hidden, state.Cards[a].State)
	assert.Equal(t, Hidden, state.Cards[b].State)
	assert.Nil(t, state.FirstCard)
	assert.Nil(t, state.SecondCard)
	assert.False(t, state.Locked)

	// No second revert
	g.clock.Advance(10 * time.Second)
	assert.Equal(t, []CardState{Flipped, Hidden}, g.surface.stateChanges(a))
	assert.Equal(t, []CardState{Flipped, Hidden}, g.surface.stateChanges(b))

	assert.True(t, g.engine.HandleSelection(other))
}

func TestWin_FiresExactlyOnce(t *testing.T) {
	g := newTestGame(t, createTestConfig(8))

	for _, pair := range g.pairIDs() {
		g.flipPair(t, pair[0], pair[1])
	}

	ends := g.surface.endSignals()
	require.Len(t, ends, 1)
	assert.Equal(t, Win, ends[0].Outcome)
	assert.Equal(t, "You won!", ends[0].Message)

	state := g.engine.GetState()
	assert.True(t, state.GameOver)
	assert.True(t, state.Locked)
	assert.Equal(t, Win, state.Outcome)
	assert.Equal(t, 8, state.Moves)
	assert.Equal(t, 8, state.MatchedPairs)

	for i := range state.Cards {
		assert.False(t, g.engine.HandleSelection(CardID(i)))
	}
	assert.Len(t, g.surface.endSignals(), 1)
}

func TestMoveLimit_TakesPrecedenceOverWin(t *testing.T) {
	config := createTestConfig(3)
	config.MoveLimit = 3
	g := newTestGame(t, config)

	for _, pair := range g.pairIDs() {
		g.flipPair(t, pair[0], pair[1])
	}

	ends := g.surface.endSignals()
	require.Len(t, ends, 1)
	assert.Equal(t, OutOfMoves, ends[0].Outcome)
	assert.Equal(t, "You are out of moves!", ends[0].Message)
	assert.Equal(t, 3, g.engine.MatchedPairs())
	assert.Equal(t, "0 Moves Left", g.surface.lastCounter())
}

func TestMoveLimit_AfterMixedTurns(t *testing.T) {
	config := createTestConfig(8)
	config.MoveLimit = 3
	g := newTestGame(t, config)
	pairs := g.pairIDs()

	g.flipPair(t, pairs[0][0], pairs[1][0])
	g.clock.Advance(config.RevealDelay())
	g.flipPair(t, pairs[2][0], pairs[2][1])
	assert.False(t, g.engine.IsGameOver())

	g.flipPair(t, pairs[3][0], pairs[3][1])

	assert.Equal(t, OutOfMoves, g.engine.Outcome())
	assert.Len(t, g.surface.endSignals(), 1)
	assert.False(t, g.engine.HandleSelection(pairs[4][0]))
}

func TestMoveLimit_FinalMoveMismatch(t *testing.T) {
	config := createTestConfig(4)
	config.MoveLimit = 1
	g := newTestGame(t, config)
	a, b := g.mismatch()

	g.flipPair(t, a, b)
	assert.Equal(t, OutOfMoves, g.engine.Outcome())

	g.clock.Advance(config.RevealDelay())

	state := g.engine.GetState()
	assert.Equal(t, Hidden, state.Cards[a].State)
	assert.Equal(t, Hidden, state.Cards[b].State)
	assert.True(t, state.Locked, "a finished game stays locked after the reveal")
	assert.Len(t, g.surface.endSignals(), 1)
}

func TestTimeLimit_EndsOnSecondTick(t *testing.T) {
	config := createTestConfig(8)
	config.TimeLimitSeconds = 2
	g := newTestGame(t, config, WithMode(TimeLimited))

	assert.Equal(t, []string{"00:02"}, g.surface.clockTexts())

	g.clock.Advance(time.Second)
	assert.False(t, g.engine.IsGameOver())
	assert.Equal(t, []string{"00:02", "00:01"}, g.surface.clockTexts())

	g.clock.Advance(time.Second)
	assert.Equal(t, TimesUp, g.engine.Outcome())
	assert.Equal(t, []string{"00:02", "00:01", "00:00"}, g.surface.clockTexts())

	ends := g.surface.endSignals()
	require.Len(t, ends, 1)
	assert.Equal(t, "Time's up!", ends[0].Message)

	state := g.engine.GetState()
	assert.False(t, state.ClockRunning)
	assert.True(t, state.Locked)
	assert.Equal(t, 0, g.clock.Pending())

	g.clock.Advance(5 * time.Second)
	assert.Len(t, g.surface.endSignals(), 1)
}

func TestTimeLimit_MovesAreCountedNotLimited(t *testing.T) {
	config := createTestConfig(8)
	config.MoveLimit = 1
	g := newTestGame(t, config, WithMode(TimeLimited))
	pairs := g.pairIDs()

	g.flipPair(t, pairs[0][0], pairs[0][1])
	g.flipPair(t, pairs[1][0], pairs[1][1])

	assert.False(t, g.engine.IsGameOver())
	assert.Equal(t, "Moves: 2", g.surface.lastCounter())
}

func TestTimeLimit_WinStopsClock(t *testing.T) {
	g := newTestGame(t, createTestConfig(2), WithMode(TimeLimited))

	for _, pair := range g.pairIDs() {
		g.flipPair(t, pair[0], pair[1])
	}

	assert.Equal(t, Win, g.engine.Outcome())
	assert.False(t, g.engine.GetState().ClockRunning)
	assert.Equal(t, 0, g.clock.Pending())
}

func TestSelectMode_DiscardsBoardMidGame(t *testing.T) {
	g := newTestGame(t, createTestConfig(8))
	pairs := g.pairIDs()
	g.flipPair(t, pairs[0][0], pairs[0][1])
	require.True(t, g.engine.HandleSelection(pairs[1][0]))
	before := g.engine.GetState()

	require.NoError(t, g.engine.SelectMode(TimeLimited))

	state := g.engine.GetState()
	assert.Equal(t, TimeLimited, state.Mode)
	assert.Equal(t, 0, state.Moves)
	assert.Equal(t, 0, state.MatchedPairs)
	assert.Nil(t, state.FirstCard)
	assert.Nil(t, state.SecondCard)
	assert.Equal(t, "Moves: 0", state.CounterText)
	assert.Equal(t, "01:00", state.ClockText)
	assert.True(t, state.ClockRunning)
	assert.Empty(t, state.History)
	assert.Greater(t, state.Generation, before.Generation)
	assert.NotEqual(t, before.GameID, state.GameID)
	for _, c := range state.Cards {
		assert.Equal(t, Hidden, c.State)
	}
	assert.Len(t, g.surface.boards, 2)

	require.NoError(t, g.engine.SelectMode(MovesLimited))
	state = g.engine.GetState()
	assert.Equal(t, "20 Moves Left", state.CounterText)
	assert.Equal(t, "00:00", state.ClockText)
	assert.False(t, state.ClockRunning)
	assert.Equal(t, 0, g.clock.Pending())
}

func TestSelectMode_SameModeRestarts(t *testing.T) {
	g := newTestGame(t, createTestConfig(8))
	pairs := g.pairIDs()
	g.flipPair(t, pairs[0][0], pairs[0][1])
	before := g.engine.GetState()

	require.NoError(t, g.engine.SelectMode(MovesLimited))

	state := g.engine.GetState()
	assert.Equal(t, 0, state.Moves)
	assert.NotEqual(t, before.GameID, state.GameID)
	assert.Len(t, g.surface.boards, 2)
}

func TestSelectMode_Invalid(t *testing.T) {
	g := newTestGame(t, createTestConfig(8))

	err := g.engine.SelectMode("zen")
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.Len(t, g.surface.boards, 1)
}

func TestRestart_IgnoresStaleReveal(t *testing.T) {
	g := newTestGame(t, createTestConfig(8))
	a, b := g.mismatch()
	g.flipPair(t, a, b)
	staleGen := g.engine.GetState().Generation

	g.engine.Restart()
	require.True(t, g.engine.HandleSelection(a))

	g.clock.Advance(time.Second)
	// A callback that escaped cancellation must still be a no-op
	g.engine.reveal(staleGen, a, b)

	state := g.engine.GetState()
	assert.Equal(t, Flipped, state.Cards[a].State, "reveal from the previous game must not touch the new board")
	require.NotNil(t, state.FirstCard)
	assert.Equal(t, a, *state.FirstCard)
	assert.False(t, state.Locked)
}

func TestRestart_IgnoresStaleTick(t *testing.T) {
	config := createTestConfig(8)
	config.TimeLimitSeconds = 5
	g := newTestGame(t, config, WithMode(TimeLimited))

	g.clock.Advance(3 * time.Second)
	assert.Equal(t, 2, g.engine.GetState().TimeLeft)

	g.engine.Restart()
	assert.Equal(t, 5, g.engine.GetState().TimeLeft)
	assert.Equal(t, 1, g.clock.Pending())

	g.clock.Advance(time.Second)
	assert.Equal(t, 4, g.engine.GetState().TimeLeft)
}

func TestRestart_AfterGameOver(t *testing.T) {
	config := createTestConfig(2)
	config.MoveLimit = 1
	g := newTestGame(t, config)
	pair := g.pairIDs()[0]
	g.flipPair(t, pair[0], pair[1])
	require.True(t, g.engine.IsGameOver())

	state := g.engine.Restart()

	assert.False(t, state.GameOver)
	assert.False(t, state.Locked)
	assert.Equal(t, InProgress, state.Outcome)
	assert.Empty(t, state.Message)
	assert.True(t, g.engine.HandleSelection(0))
}

func TestTurnHistory(t *testing.T) {
	g := newTestGame(t, createTestConfig(8))
	pairs := g.pairIDs()

	g.flipPair(t, pairs[0][0], pairs[1][0])
	g.clock.Advance(time.Second)
	g.flipPair(t, pairs[0][0], pairs[0][1])

	history := g.engine.GetTurnHistory()
	require.Len(t, history, 2)

	assert.Equal(t, 1, history[0].Turn)
	assert.False(t, history[0].Matched)
	assert.NotEqual(t, history[0].FirstIcon, history[0].SecondIcon)
	assert.Equal(t, 1, history[0].MovesAfter)
	assert.Equal(t, 0, history[0].PairsMatched)

	assert.Equal(t, 2, history[1].Turn)
	assert.True(t, history[1].Matched)
	assert.Equal(t, pairs[0][0], history[1].FirstCard)
	assert.Equal(t, pairs[0][1], history[1].SecondCard)
	assert.Equal(t, 1, history[1].PairsMatched)

	g.engine.Restart()
	assert.Empty(t, g.engine.GetTurnHistory())
}

func TestClose_StopsTimers(t *testing.T) {
	g := newTestGame(t, createTestConfig(8), WithMode(TimeLimited))
	a, b := g.mismatch()
	g.flipPair(t, a, b)
	require.Equal(t, 2, g.clock.Pending())

	g.engine.Close()

	assert.Equal(t, 0, g.clock.Pending())
	assert.False(t, g.engine.HandleSelection(2))
	assert.ErrorIs(t, g.engine.SelectMode(MovesLimited), ErrEngineClosed)
}
