package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/fleet-command/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Game.GetState(),
		GameConfig:     sess.Config,
	}
}

// lookup finds a session without touching it
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	return sess, nil
}

// getSession looks up a session and refreshes its access time. Callers hold
// the write lock.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// touch refreshes the access time for read paths. LastAccessedAt is read
// under the read lock, so it is only written under the write lock.
func (s *gameServiceImpl) touch(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.UpdateLastAccessed(sessionID)
}

// CreateSession creates a new match on the requested board
func (s *gameServiceImpl) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if req.ConfigName != "" {
		config, err = s.configs.LoadConfig(req.ConfigName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: config '%s' not found. Available configs: %v", ErrConfigNotFound, req.ConfigName, configIDs)
				}
				return nil, fmt.Errorf("%w: config '%s' not found. Use /api/configs to list available configurations", ErrConfigNotFound, req.ConfigName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", req.ConfigName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	player1 := strings.TrimSpace(req.Player1)
	if player1 == "" {
		player1 = DefaultPlayer1Name
	}
	player2 := strings.TrimSpace(req.Player2)
	if player2 == "" {
		player2 = DefaultPlayer2Name
	}

	// Let session manager generate a 4-character ID
	sess, err := s.sessions.Create("", config, player1, player2)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(sess, strings.TrimSuffix(req.ConfigName, ".json")), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	defer s.touch(sessionID)
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// PlaceShip validates and positions one ship for a player
func (s *gameServiceImpl) PlaceShip(ctx context.Context, sessionID string, req PlacementRequest) (*PlacementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	shipType, err := engine.ParseShipType(req.ShipType)
	if err != nil {
		return nil, err
	}
	orientation, err := engine.ParseOrientation(req.Orientation)
	if err != nil {
		return nil, err
	}
	coord := engine.NewCoordinate(req.Col, req.Row)
	if req.Coordinate != "" {
		if coord, err = engine.ParseCoordinate(req.Coordinate); err != nil {
			return nil, err
		}
	}

	player, err := sess.Game.LookupPlayer(req.Player)
	if err != nil {
		return nil, err
	}

	if err := sess.Game.CreateShip(player.ID, shipType, coord, orientation); err != nil {
		return nil, err
	}

	ship, _ := sess.Game.ShipAt(player.ID, coord)
	missing := sess.Game.MissingShipTypes(player.ID)
	state := sess.Game.GetState()

	now := time.Now()
	events := []GameEvent{{
		Type:      "ship_placed",
		Message:   fmt.Sprintf("%s positioned %s", player.Name, ship),
		Timestamp: now,
		PlayerID:  string(player.ID),
	}}
	fleetComplete := len(missing) == 0
	if fleetComplete {
		events = append(events, GameEvent{
			Type:      "fleet_complete",
			Message:   fmt.Sprintf("%s has positioned every ship", player.Name),
			Timestamp: now,
			PlayerID:  string(player.ID),
		})
	}
	readyToStart := true
	for _, fleet := range state.Fleets {
		readyToStart = readyToStart && fleet.Complete
	}
	if readyToStart {
		events = append(events, GameEvent{
			Type:      "ready_to_start",
			Message:   "Both fleets are complete",
			Timestamp: now,
		})
	}

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after placement: %v\n", sessionID, err)
	}

	return &PlacementResult{
		Success:       true,
		SessionID:     sess.ID,
		Player:        player,
		Ship:          ship,
		Missing:       missing,
		FleetComplete: fleetComplete,
		ReadyToStart:  readyToStart,
		GameState:     state,
		Message:       state.Message,
		Events:        events,
	}, nil
}

// StartGame begins the match once both fleets are complete
func (s *gameServiceImpl) StartGame(ctx context.Context, sessionID string) (*StartResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Game.Start(); err != nil {
		return nil, err
	}

	state := sess.Game.GetState()
	current := *sess.Game.PlayerTurn()

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after start: %v\n", sessionID, err)
	}

	return &StartResult{
		Success:       true,
		SessionID:     sess.ID,
		CurrentPlayer: current,
		Round:         state.Round,
		GameState:     state,
		Message:       state.Message,
		Events: []GameEvent{{
			Type:      "game_started",
			Message:   fmt.Sprintf("%s moves first", current.Name),
			Timestamp: time.Now(),
			PlayerID:  string(current.ID),
		}},
	}, nil
}

// GetGameState returns the current state of a match
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	defer s.touch(sessionID)
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Game.GetState(), nil
}

// GetFleet returns one player's fleet and a rendering of their board
func (s *gameServiceImpl) GetFleet(ctx context.Context, sessionID, player string) (*FleetView, error) {
	defer s.touch(sessionID)
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	p, err := sess.Game.LookupPlayer(player)
	if err != nil {
		return nil, err
	}
	ships, err := sess.Game.Ships(p.ID)
	if err != nil {
		return nil, err
	}
	board, err := sess.Game.RenderPlayerBoard(p.ID)
	if err != nil {
		return nil, err
	}
	missing := sess.Game.MissingShipTypes(p.ID)

	return &FleetView{
		Player:   p,
		Ships:    ships,
		Missing:  missing,
		Complete: len(missing) == 0,
		Board:    board,
	}, nil
}

// DescribeCell reports what occupies a cell of a player's board
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID, player string, col, row int) (*CellInfo, error) {
	defer s.touch(sessionID)
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	p, err := sess.Game.LookupPlayer(player)
	if err != nil {
		return nil, err
	}

	config := sess.Game.GetConfig()
	if col < 1 || col > config.Columns {
		return nil, &engine.RuleError{Kind: engine.ErrInvalidColumn, Msg: fmt.Sprintf("column %d is outside 1..%d", col, config.Columns)}
	}
	if row < 1 || row > config.Rows {
		return nil, &engine.RuleError{Kind: engine.ErrInvalidRow, Msg: fmt.Sprintf("row %d is outside 1..%d", row, config.Rows)}
	}

	coord := engine.NewCoordinate(col, row)
	info := &CellInfo{
		Player:     p,
		Coordinate: coord,
		Label:      coord.String(),
	}
	if ship, ok := sess.Game.ShipAt(p.ID, coord); ok {
		info.Occupied = true
		info.Ship = &ship
	}
	return info, nil
}

// ListConfigs returns all available board configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a board configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// ListShipTypes describes every ship a complete fleet contains, largest first
func (s *gameServiceImpl) ListShipTypes(ctx context.Context) []ShipTypeInfo {
	types := engine.AllShipTypes()
	result := make([]ShipTypeInfo, 0, len(types))
	for _, t := range types {
		result = append(result, ShipTypeInfo{
			Type:   t,
			Name:   t.DisplayName(),
			Size:   t.Size(),
			Symbol: t.Symbol(),
		})
	}
	return result
}
