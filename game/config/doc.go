// Package config provides configuration management for the memory match game.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Configuration validation with defaults for omitted fields
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - The icon alphabet; every icon is dealt on exactly two cards
//   - The move limit and the time limit in seconds
//   - The mismatch reveal delay and the clock tick interval
//   - The mode a new session starts in ("moves" or "timer")
//   - End-of-game messages and the counter formats
//
// Available Configurations:
//   - classic: eight fruit pairs, 20 moves or 60 seconds
//   - easy: four pairs with a generous move budget
//   - blitz: twelve pairs, starts in timer mode
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal().Err(err).Msg("config")
//	}
//
//	gameConfig, err := manager.LoadConfig("easy")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// When the directory holds no valid configuration the manager falls back
// to engine.DefaultConfig.
package config
