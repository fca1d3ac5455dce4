package service

import (
	"sync"
	"time"

	"github.com/wricardo/memory-match-game/game/engine"
)

// maxPendingEvents bounds the per-session buffer between requests
const maxPendingEvents = 256

// SessionSurface implements engine.Surface for a network session. Every
// command becomes a GameEvent that is buffered for the next API response
// and pushed to the session's live clients.
type SessionSurface struct {
	sessionID string
	notifier  Notifier

	mu      sync.Mutex
	pending []GameEvent
}

// NewSessionSurface creates a surface for sessionID. notifier may be nil.
func NewSessionSurface(sessionID string, notifier Notifier) *SessionSurface {
	return &SessionSurface{
		sessionID: sessionID,
		notifier:  notifier,
	}
}

func (s *SessionSurface) RenderBoard(cards []engine.Card) {
	s.emit(GameEvent{Type: EventRenderBoard, Cards: cards})
}

func (s *SessionSurface) SetCardVisualState(card engine.Card) {
	s.emit(GameEvent{Type: EventCardState, Card: &card})
}

func (s *SessionSurface) SetCounterText(text string) {
	s.emit(GameEvent{Type: EventCounter, Message: text})
}

func (s *SessionSurface) SetClockText(text string) {
	s.emit(GameEvent{Type: EventClock, Message: text})
}

func (s *SessionSurface) ShowEndGameMessage(outcome engine.Outcome, message string) {
	s.emit(GameEvent{Type: EventGameOver, Outcome: outcome, Message: message})
}

// Drain returns and clears the buffered events
func (s *SessionSurface) Drain() []GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.pending
	s.pending = nil
	return events
}

func (s *SessionSurface) emit(ev GameEvent) {
	ev.Timestamp = time.Now()

	s.mu.Lock()
	if len(s.pending) >= maxPendingEvents {
		// Drop the oldest
		s.pending = s.pending[1:]
	}
	s.pending = append(s.pending, ev)
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.Publish(s.sessionID, ev.Type, ev)
	}
}
