package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GameConfig describes a board and the placement rules played on it
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Columns     int    `json:"columns"`
	Rows        int    `json:"rows"`

	// AllowOverhang only bounds-checks the ship origin, letting the rest of
	// the ship run off the grid.
	AllowOverhang bool `json:"allow_overhang"`

	Messages struct {
		Welcome     string `json:"welcome"`
		ShipPlaced  string `json:"ship_placed"`
		FleetReady  string `json:"fleet_ready"`
		GameStarted string `json:"game_started"`
	} `json:"messages"`
}

// DefaultGameConfig returns the classic 10x10 board
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:        "Classic",
		Description: "Classic 10x10 board, every ship must fit on the grid",
		Columns:     DefaultGridSize,
		Rows:        DefaultGridSize,
	}
	config.Messages.Welcome = "Welcome, admirals! Position your fleets."
	config.Messages.ShipPlaced = "%s positioned"
	config.Messages.FleetReady = "Both fleets are ready. Start the game!"
	config.Messages.GameStarted = "Game started! %s moves first"
	return config
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Columns < MinGridSize || config.Columns > MaxGridSize {
		return fmt.Errorf("config validation: columns must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Columns)
	}
	if config.Rows < MinGridSize || config.Rows > MaxGridSize {
		return fmt.Errorf("config validation: rows must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Rows)
	}

	// The fleet has to be placeable at all
	longest := config.Columns
	if config.Rows > longest {
		longest = config.Rows
	}
	fleetCells := 0
	for _, t := range fleetOrder {
		if t.Size() > longest {
			return fmt.Errorf("config validation: %s (size %d) does not fit a %dx%d grid", t.DisplayName(), t.Size(), config.Columns, config.Rows)
		}
		fleetCells += t.Size()
	}
	if fleetCells > config.Columns*config.Rows {
		return fmt.Errorf("config validation: fleet needs %d cells but grid only has %d", fleetCells, config.Columns*config.Rows)
	}

	if config.Messages.ShipPlaced != "" && strings.Count(config.Messages.ShipPlaced, "%s") != 1 {
		return fmt.Errorf("config validation: messages.ship_placed must contain exactly one %%s for the ship name")
	}
	if config.Messages.GameStarted != "" && strings.Count(config.Messages.GameStarted, "%s") != 1 {
		return fmt.Errorf("config validation: messages.game_started must contain exactly one %%s for the player name")
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
