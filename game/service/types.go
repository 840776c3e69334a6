package service

import (
	"time"

	"github.com/wricardo/fleet-command/game/engine"
)

// Default seat names used when a session is created without player names
const (
	DefaultPlayer1Name = "Player 1"
	DefaultPlayer2Name = "Player 2"
)

// CreateSessionRequest selects a board and names the two players
type CreateSessionRequest struct {
	ConfigName string `json:"config_name"`
	Player1    string `json:"player1"`
	Player2    string `json:"player2"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// PlacementRequest positions one ship. Player may be a player id or a unique
// name. The target cell is given either as Col/Row or as a Coordinate such
// as "B7".
type PlacementRequest struct {
	Player      string `json:"player"`
	ShipType    string `json:"ship_type"`
	Col         int    `json:"col,omitempty"`
	Row         int    `json:"row,omitempty"`
	Coordinate  string `json:"coordinate,omitempty"`
	Orientation string `json:"orientation"`
}

// PlacementResult contains the outcome of a successful placement
type PlacementResult struct {
	Success       bool              `json:"success"`
	SessionID     string            `json:"session_id"`
	Player        engine.Player     `json:"player"`
	Ship          engine.Ship       `json:"ship"`
	Missing       []engine.ShipType `json:"missing"`
	FleetComplete bool              `json:"fleet_complete"`
	ReadyToStart  bool              `json:"ready_to_start"`
	GameState     *engine.GameState `json:"game_state"`
	Message       string            `json:"message"`
	Events        []GameEvent       `json:"events,omitempty"`
}

// StartResult contains the outcome of a successful start
type StartResult struct {
	Success       bool              `json:"success"`
	SessionID     string            `json:"session_id"`
	CurrentPlayer engine.Player     `json:"current_player"`
	Round         int               `json:"round"`
	GameState     *engine.GameState `json:"game_state"`
	Message       string            `json:"message"`
	Events        []GameEvent       `json:"events,omitempty"`
}

// FleetView is one player's positioned ships together with a rendered board
type FleetView struct {
	Player   engine.Player     `json:"player"`
	Ships    []engine.Ship     `json:"ships"`
	Missing  []engine.ShipType `json:"missing"`
	Complete bool              `json:"complete"`
	Board    string            `json:"board"`
}

// CellInfo describes one cell of a player's board
type CellInfo struct {
	Player     engine.Player     `json:"player"`
	Coordinate engine.Coordinate `json:"coordinate"`
	Label      string            `json:"label"`
	Occupied   bool              `json:"occupied"`
	Ship       *engine.Ship      `json:"ship,omitempty"`
}

// ShipTypeInfo describes a ship type for clients
type ShipTypeInfo struct {
	Type   engine.ShipType `json:"type"`
	Name   string          `json:"name"`
	Size   int             `json:"size"`
	Symbol string          `json:"symbol"`
}

// GameEvent represents an event that occurred during setup
type GameEvent struct {
	Type      string    `json:"type"` // "ship_placed", "fleet_complete", "ready_to_start", "game_started"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  string    `json:"player_id,omitempty"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	Columns       int    `json:"columns"`
	Rows          int    `json:"rows"`
	AllowOverhang bool   `json:"allow_overhang"`
}
