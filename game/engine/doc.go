// Package engine provides the core game logic for the memory match game.
//
// The engine package implements the game mechanics including:
//   - Board setup from a uniformly shuffled multiset of paired icons
//   - Turn resolution (match, mismatch and the timed reveal)
//   - Move-limited and time-limited modes
//   - Clock coordination and end-of-game detection
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is a snapshot of a running game,
// while GameConfig defines the icons, limits and texts loaded from JSON files.
//
// The engine never draws anything itself. Output commands go to a Surface,
// and the two timers (the repeating clock tick and the one-shot mismatch
// reveal) are scheduled on a Clock. SystemClock wraps a real clock;
// ManualClock only moves when told to and is what tests and the simulator use.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("configs", "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config, engine.WithSurface(renderer))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer gameEngine.Close()
//
//	gameEngine.HandleSelection(0)
//	gameEngine.HandleSelection(5)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Every icon appears on exactly two face-down cards. A turn flips two cards:
// a matching pair stays face-up, a mismatched pair is shown for the reveal
// delay and then turned back while the board is locked. Each resolved pair
// costs one move. The game is won when every pair is matched. In moves mode
// it is lost when the move limit is reached, which takes precedence over a
// win on the same turn. In timer mode it is lost when the clock reaches zero.
//
// Every restart or mode switch bumps the game generation. Timer callbacks
// scheduled for an older generation do nothing when they fire.
package engine
