package engine

import (
	"fmt"
	"strings"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Placement
	CreateShip(player PlayerID, shipType ShipType, coordinate Coordinate, orientation Orientation) error
	Start() error

	// Fleets
	PlayerShips() map[PlayerID][]Ship
	Fleets() []Fleet
	Ships(player PlayerID) ([]Ship, error)
	MissingShipTypes(player PlayerID) []ShipType
	ShipAt(player PlayerID, coordinate Coordinate) (Ship, bool)

	// Players and turn
	Players() []Player
	Player(id PlayerID) (Player, error)
	LookupPlayer(ref string) (Player, error)
	Round() int
	PlayerTurn() *Player
	IsStarted() bool

	// State
	GetState() *GameState
	GetConfig() *GameConfig
}

// Game holds two players' fleets and the turn state of one match
type Game struct {
	config  *GameConfig
	players [2]Player
	ships   map[PlayerID][]Ship
	turn    *Turn
	started bool
	message string
}

// NewGame creates a game between two players on the board described by config.
// Players without an id are assigned one.
func NewGame(config *GameConfig, player1, player2 Player) (*Game, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	if player1.ID == "" {
		player1.ID = NewPlayer(player1.Name).ID
	}
	if player2.ID == "" {
		player2.ID = NewPlayer(player2.Name).ID
	}
	if player1.ID == player2.ID {
		return nil, fmt.Errorf("players must have distinct ids, both are %q", player1.ID)
	}

	return &Game{
		config:  config,
		players: [2]Player{player1, player2},
		ships: map[PlayerID][]Ship{
			player1.ID: {},
			player2.ID: {},
		},
		turn:    NewTurn(),
		message: config.Messages.Welcome,
	}, nil
}

// NewGameWithDefaults creates a game on the classic board
func NewGameWithDefaults(player1, player2 Player) *Game {
	game, err := NewGame(DefaultGameConfig(), player1, player2)
	if err != nil {
		// Only reachable when both players share an id
		panic(err)
	}
	return game
}

// CreateShip validates and positions a ship for a player. Checks run in
// order (bounds, duplicate type, overlap) and nothing changes on failure.
func (g *Game) CreateShip(player PlayerID, shipType ShipType, coordinate Coordinate, orientation Orientation) error {
	owner, err := g.Player(player)
	if err != nil {
		return err
	}
	if g.started {
		return ruleErrorf(ErrGameStarted, "ships can no longer be positioned")
	}
	if !shipType.IsValid() {
		return ruleErrorf(ErrUnknownShipType, "%q", shipType)
	}
	if !orientation.IsValid() {
		return ruleErrorf(ErrInvalidOrientation, "%q", orientation)
	}

	newShip := NewShip(shipType, coordinate, orientation)
	if err := g.checkBounds(newShip); err != nil {
		return err
	}
	if err := g.checkFleet(owner.ID, newShip); err != nil {
		return err
	}

	g.ships[owner.ID] = append(g.ships[owner.ID], newShip)

	if g.allFleetsComplete() && g.config.Messages.FleetReady != "" {
		g.message = g.config.Messages.FleetReady
	} else if g.config.Messages.ShipPlaced != "" {
		g.message = fmt.Sprintf(g.config.Messages.ShipPlaced, shipType.DisplayName())
	}
	return nil
}

// checkBounds rejects an origin outside the grid, and unless overhang is
// allowed, a span whose far end leaves the grid.
func (g *Game) checkBounds(ship Ship) error {
	origin := ship.Origin()
	if origin.Col < 1 || origin.Col > g.config.Columns {
		return ruleErrorf(ErrInvalidColumn, "column %d is outside 1..%d", origin.Col, g.config.Columns)
	}
	if origin.Row < 1 || origin.Row > g.config.Rows {
		return ruleErrorf(ErrInvalidRow, "row %d is outside 1..%d", origin.Row, g.config.Rows)
	}
	if g.config.AllowOverhang {
		return nil
	}

	span := ship.Span()
	if span.EndCol > g.config.Columns {
		return ruleErrorf(ErrInvalidColumn, "%s would extend to column %d, past %d", ship.Type().DisplayName(), span.EndCol, g.config.Columns)
	}
	if span.EndRow > g.config.Rows {
		return ruleErrorf(ErrInvalidRow, "%s would extend to row %d, past %d", ship.Type().DisplayName(), span.EndRow, g.config.Rows)
	}
	return nil
}

// checkFleet runs the duplicate-type scan before the overlap scan
func (g *Game) checkFleet(player PlayerID, newShip Ship) error {
	existing := g.ships[player]

	for _, ship := range existing {
		if ship.Type() == newShip.Type() {
			return ruleErrorf(ErrDuplicateShipType, "you already have a %s on board", newShip.Type().DisplayName())
		}
	}

	span := newShip.Span()
	for _, ship := range existing {
		if span.Overlaps(ship.Span()) {
			return ruleErrorf(ErrOverlappingShip, "%s at %s would overlap your %s at %s",
				newShip.Type().DisplayName(), newShip.Origin(), ship.Type().DisplayName(), ship.Origin())
		}
	}
	return nil
}

// Start begins the game once every player has a complete fleet. Player 1
// moves first.
func (g *Game) Start() error {
	if g.started {
		return ruleErrorf(ErrAlreadyStarted, "game is already in round %d", g.turn.Round())
	}

	for _, p := range g.players {
		if !g.fleetComplete(p.ID) {
			return ruleErrorf(ErrIncompleteFleet, "%s needs to position all ships before start (missing: %s)",
				p.Name, joinDisplayNames(g.MissingShipTypes(p.ID)))
		}
	}

	g.started = true
	g.turn.Change(g.players[0])
	if g.config.Messages.GameStarted != "" {
		g.message = fmt.Sprintf(g.config.Messages.GameStarted, g.players[0].Name)
	}
	return nil
}

// fleetComplete requires exactly one ship of every type
func (g *Game) fleetComplete(player PlayerID) bool {
	ships := g.ships[player]
	if len(ships) != len(fleetOrder) {
		return false
	}
	counts := make(map[ShipType]int, len(ships))
	for _, ship := range ships {
		counts[ship.Type()]++
	}
	for _, t := range fleetOrder {
		if counts[t] != 1 {
			return false
		}
	}
	return true
}

func (g *Game) allFleetsComplete() bool {
	for _, p := range g.players {
		if !g.fleetComplete(p.ID) {
			return false
		}
	}
	return true
}

// PlayerShips returns a copy of every player's ships keyed by player id
func (g *Game) PlayerShips() map[PlayerID][]Ship {
	result := make(map[PlayerID][]Ship, len(g.ships))
	for id, ships := range g.ships {
		copied := make([]Ship, len(ships))
		copy(copied, ships)
		result[id] = copied
	}
	return result
}

// Ships returns a copy of one player's ships in placement order
func (g *Game) Ships(player PlayerID) ([]Ship, error) {
	if _, err := g.Player(player); err != nil {
		return nil, err
	}
	ships := make([]Ship, len(g.ships[player]))
	copy(ships, g.ships[player])
	return ships, nil
}

// Fleets returns each player's fleet in seat order
func (g *Game) Fleets() []Fleet {
	fleets := make([]Fleet, 0, len(g.players))
	for _, p := range g.players {
		fleets = append(fleets, g.fleet(p))
	}
	return fleets
}

func (g *Game) fleet(p Player) Fleet {
	ships := make([]Ship, len(g.ships[p.ID]))
	copy(ships, g.ships[p.ID])
	missing := g.MissingShipTypes(p.ID)
	return Fleet{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Ships:      ships,
		Missing:    missing,
		Complete:   g.fleetComplete(p.ID),
	}
}

// MissingShipTypes lists the ship types a player has not positioned yet,
// largest first. Unknown players get nil.
func (g *Game) MissingShipTypes(player PlayerID) []ShipType {
	ships, ok := g.ships[player]
	if !ok {
		return nil
	}
	placed := make(map[ShipType]bool, len(ships))
	for _, ship := range ships {
		placed[ship.Type()] = true
	}
	missing := []ShipType{}
	for _, t := range fleetOrder {
		if !placed[t] {
			missing = append(missing, t)
		}
	}
	return missing
}

// ShipAt returns the player's ship covering the coordinate, if any
func (g *Game) ShipAt(player PlayerID, coordinate Coordinate) (Ship, bool) {
	for _, ship := range g.ships[player] {
		if ship.Span().Contains(coordinate) {
			return ship, true
		}
	}
	return Ship{}, false
}

// Players returns both players in seat order
func (g *Game) Players() []Player {
	return []Player{g.players[0], g.players[1]}
}

// Player returns the player with the given id
func (g *Game) Player(id PlayerID) (Player, error) {
	for _, p := range g.players {
		if p.ID == id {
			return p, nil
		}
	}
	return Player{}, ruleErrorf(ErrPlayerNotFound, "%q", id)
}

// LookupPlayer resolves a player by id, falling back to a case-insensitive
// name match when the name is unique within the game.
func (g *Game) LookupPlayer(ref string) (Player, error) {
	if p, err := g.Player(PlayerID(ref)); err == nil {
		return p, nil
	}

	var matches []Player
	for _, p := range g.players {
		if strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return Player{}, ruleErrorf(ErrPlayerNotFound, "%q", ref)
	default:
		return Player{}, ruleErrorf(ErrPlayerNotFound, "%q is ambiguous, use the player id", ref)
	}
}

// Round returns the current round
func (g *Game) Round() int {
	return g.turn.Round()
}

// PlayerTurn returns the player whose turn it is, or nil before start
func (g *Game) PlayerTurn() *Player {
	return g.turn.Player()
}

// IsStarted reports whether Start has succeeded
func (g *Game) IsStarted() bool {
	return g.started
}

// GetConfig returns the board configuration
func (g *Game) GetConfig() *GameConfig {
	return g.config
}

func joinDisplayNames(types []ShipType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.DisplayName())
	}
	return strings.Join(names, ", ")
}
