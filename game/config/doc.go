// Package config provides board configuration management for Fleet Command.
//
// The config package handles:
//   - Loading board configurations from JSON files
//   - Configuration validation through the engine rules
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Board configurations are stored as JSON files in the configs directory.
// Each configuration defines the grid size (columns and rows, 5 to 26), whether
// ships may overhang the grid edge, and the messages shown as a match
// progresses.
//
// Available Configurations:
//   - classic: 10x10 grid, ships must fit entirely
//   - compact: 7x7 grid for quick matches
//   - legacy: 10x10 grid where only the ship origin is bounds-checked
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("compact")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config
