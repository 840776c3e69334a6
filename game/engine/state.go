package engine

import "fmt"

// Fleet is one player's view of positioned ships
type Fleet struct {
	PlayerID   PlayerID   `json:"player_id"`
	PlayerName string     `json:"player_name"`
	Ships      []Ship     `json:"ships"`
	Missing    []ShipType `json:"missing"`
	Complete   bool       `json:"complete"`
}

// GameState is a serializable snapshot of a game
type GameState struct {
	ConfigName    string   `json:"config_name"`
	Columns       int      `json:"columns"`
	Rows          int      `json:"rows"`
	AllowOverhang bool     `json:"allow_overhang"`
	Players       []Player `json:"players"`
	Fleets        []Fleet  `json:"fleets"`
	Started       bool     `json:"started"`
	Round         int      `json:"round"`
	CurrentPlayer *Player  `json:"current_player,omitempty"`
	Message       string   `json:"message"`
}

// GetState returns a snapshot of the current game
func (g *Game) GetState() *GameState {
	return &GameState{
		ConfigName:    g.config.Name,
		Columns:       g.config.Columns,
		Rows:          g.config.Rows,
		AllowOverhang: g.config.AllowOverhang,
		Players:       g.Players(),
		Fleets:        g.Fleets(),
		Started:       g.started,
		Round:         g.turn.Round(),
		CurrentPlayer: g.turn.Player(),
		Message:       g.message,
	}
}

// RestoreGame rebuilds a game from a snapshot. Every ship is replayed
// through CreateShip so a tampered snapshot cannot break fleet invariants.
func RestoreGame(config *GameConfig, state *GameState) (*Game, error) {
	if state == nil {
		return nil, fmt.Errorf("state cannot be nil")
	}
	if len(state.Players) != 2 {
		return nil, fmt.Errorf("state must contain exactly 2 players, got %d", len(state.Players))
	}

	game, err := NewGame(config, state.Players[0], state.Players[1])
	if err != nil {
		return nil, err
	}

	for _, fleet := range state.Fleets {
		for _, ship := range fleet.Ships {
			if err := game.CreateShip(fleet.PlayerID, ship.Type(), ship.Origin(), ship.Orientation()); err != nil {
				return nil, fmt.Errorf("failed to restore %s for %s: %w", ship.Type().DisplayName(), fleet.PlayerName, err)
			}
		}
	}

	if state.Started {
		if err := game.Start(); err != nil {
			return nil, fmt.Errorf("failed to restore started game: %w", err)
		}
		game.turn.restore(state.Round)
	}
	game.message = state.Message

	return game, nil
}
