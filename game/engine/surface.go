package engine

// Surface receives the engine's output commands. A renderer, a network
// session or a test recorder can sit behind it.
//
// Methods are called while the engine holds its lock, so implementations
// must not call back into the engine.
type Surface interface {
	RenderBoard(cards []Card)
	SetCardVisualState(card Card)
	SetCounterText(text string)
	SetClockText(text string)
	ShowEndGameMessage(outcome Outcome, message string)
}

// NopSurface discards every command
type NopSurface struct{}

func (NopSurface) RenderBoard([]Card) {}
func (NopSurface) SetCardVisualState(Card) {}
func (NopSurface) SetCounterText(string) {}
func (NopSurface) SetClockText(string) {}
func (NopSurface) ShowEndGameMessage(Outcome, string) {}
