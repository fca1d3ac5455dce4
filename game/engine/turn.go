package engine

// HandleSelection is the single input entry point for a selected card.
// Invalid selections (locked board, finished game, unknown id, card already
// face-up) are ignored and return false.
func (e *GameEngine) HandleSelection(id CardID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.locked || e.outcome != InProgress {
		return false
	}
	if int(id) < 0 || int(id) >= len(e.cards) {
		return false
	}

	card := &e.cards[id]
	if card.State != Hidden {
		return false
	}

	card.State = Flipped
	e.surface.SetCardVisualState(*card)

	if e.first == nil {
		e.first = &id
		return true
	}

	e.second = &id
	e.resolveLocked()
	return true
}

// resolveLocked compares the two selected cards, then counts the move and
// checks the end conditions
func (e *GameEngine) resolveLocked() {
	a, b := *e.first, *e.second
	first, second := &e.cards[a], &e.cards[b]
	matched := first.Icon == second.Icon

	if matched {
		first.State = Matched
		second.State = Matched
		e.surface.SetCardVisualState(*first)
		e.surface.SetCardVisualState(*second)
		e.matched++
		e.first, e.second = nil, nil
	} else {
		e.locked = true
		gen := e.generation
		e.cancelReveal = e.clock.After(e.config.RevealDelay(), func() {
			e.reveal(gen, a, b)
		})
	}

	e.moves++
	e.setCounterLocked()

	e.history = append(e.history, TurnRecord{
		Turn:         len(e.history) + 1,
		FirstCard:    a,
		SecondCard:   b,
		FirstIcon:    first.Icon,
		SecondIcon:   second.Icon,
		Matched:      matched,
		MovesAfter:   e.moves,
		TimeLeft:     e.timeLeft,
		PairsMatched: e.matched,
		Timestamp:    e.clock.Now().Unix(),
	})

	// Running out of moves is checked first so a final matching pair
	// yields a single out-of-moves signal.
	if e.mode == MovesLimited && e.moves >= e.config.MoveLimit {
		e.endGameLocked(OutOfMoves, e.config.Messages.OutOfMoves)
		return
	}
	if e.matched == len(e.config.Icons) {
		e.endGameLocked(Win, e.config.Messages.Win)
	}
}

// reveal turns a mismatched pair face-down again. Callbacks from an older
// generation are ignored.
func (e *GameEngine) reveal(gen uint64, a, b CardID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		return
	}
	e.cancelReveal = nil

	for _, id := range []CardID{a, b} {
		card := &e.cards[id]
		if card.State == Flipped {
			card.State = Hidden
			e.surface.SetCardVisualState(masked(*card))
		}
	}
	e.first, e.second = nil, nil

	if e.outcome == InProgress {
		e.locked = false
	}
}

// tick is one step of the game clock
func (e *GameEngine) tick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation || e.stopTick == nil || e.outcome != InProgress {
		return
	}

	if e.timeLeft <= 0 {
		e.stopTimerLocked()
		e.endGameLocked(TimesUp, e.config.Messages.TimesUp)
		return
	}

	e.timeLeft--
	e.setClockLocked(FormatClock(e.timeLeft))

	if e.timeLeft == 0 {
		e.stopTimerLocked()
		e.endGameLocked(TimesUp, e.config.Messages.TimesUp)
	}
}

// startTimerLocked is a no-op when the clock is already running
func (e *GameEngine) startTimerLocked() {
	if e.stopTick != nil {
		return
	}
	gen := e.generation
	e.stopTick = e.clock.Every(e.config.TickInterval(), func() {
		e.tick(gen)
	})
}

func (e *GameEngine) stopTimerLocked() {
	if e.stopTick == nil {
		return
	}
	e.stopTick()
	e.stopTick = nil
}

// endGameLocked enters the terminal state. It fires at most once per game.
func (e *GameEngine) endGameLocked(outcome Outcome, message string) {
	if e.outcome != InProgress {
		return
	}
	e.outcome = outcome
	e.message = message
	e.stopTimerLocked()
	e.locked = true
	e.surface.ShowEndGameMessage(outcome, message)
}
