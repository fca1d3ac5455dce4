package engine

import "fmt"

// FormatClock renders seconds as zero-padded MM:SS
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// CounterText renders the move counter for a mode: moves remaining when
// moves are limited, moves taken otherwise
func CounterText(config *GameConfig, mode GameMode, moves int) string {
	if mode == MovesLimited {
		return fmt.Sprintf(config.Messages.MovesLeft, config.MoveLimit-moves)
	}
	return fmt.Sprintf(config.Messages.MovesTaken, moves)
}

// ParseMode converts user input to a GameMode
func ParseMode(s string) (GameMode, error) {
	switch GameMode(s) {
	case MovesLimited, TimeLimited:
		return GameMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}
