package engine

import (
	"errors"
	"strings"
	"testing"
)

func newTestGame(t *testing.T) (*Game, Player, Player) {
	t.Helper()
	player1 := NewPlayer("User1")
	player2 := NewPlayer("Computer")
	game, err := NewGame(DefaultGameConfig(), player1, player2)
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	return game, player1, player2
}

// placeFleet positions a complete, non-overlapping fleet for player
func placeFleet(t *testing.T, game *Game, player PlayerID) {
	t.Helper()
	placements := []struct {
		shipType    ShipType
		col, row    int
		orientation Orientation
	}{
		{AircraftCarrier, 2, 1, Landscape},
		{Battleship, 8, 1, Portrait},
		{Destroyer, 3, 8, Portrait},
		{PatrolBoat, 5, 5, Landscape},
		{Submarine, 8, 7, Landscape},
	}
	for _, p := range placements {
		if err := game.CreateShip(player, p.shipType, NewCoordinate(p.col, p.row), p.orientation); err != nil {
			t.Fatalf("Failed to place %s: %v", p.shipType.DisplayName(), err)
		}
	}
}

func TestNewGame(t *testing.T) {
	game, player1, player2 := newTestGame(t)

	if game.IsStarted() {
		t.Error("Expected game not to be started initially")
	}
	if game.Round() != 0 {
		t.Errorf("Expected initial round 0, got %d", game.Round())
	}
	if game.PlayerTurn() != nil {
		t.Errorf("Expected no current player, got %v", game.PlayerTurn())
	}

	players := game.Players()
	if len(players) != 2 || players[0] != player1 || players[1] != player2 {
		t.Errorf("Expected players in seat order, got %v", players)
	}

	ships := game.PlayerShips()
	if len(ships) != 2 {
		t.Fatalf("Expected 2 fleets, got %d", len(ships))
	}
	for id, fleet := range ships {
		if len(fleet) != 0 {
			t.Errorf("Expected empty fleet for %s, got %d ships", id, len(fleet))
		}
	}
}

func TestNewGame_InvalidConfig(t *testing.T) {
	config := DefaultGameConfig()
	config.Name = ""

	_, err := NewGame(config, NewPlayer("a"), NewPlayer("b"))
	if err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewGame_PlayerIDs(t *testing.T) {
	t.Run("same id rejected", func(t *testing.T) {
		p := NewPlayer("Twin")
		_, err := NewGame(DefaultGameConfig(), p, Player{ID: p.ID, Name: "Other"})
		if err == nil {
			t.Error("Expected error for duplicate player ids")
		}
	})

	t.Run("missing ids generated", func(t *testing.T) {
		game, err := NewGame(DefaultGameConfig(), Player{Name: "Same"}, Player{Name: "Same"})
		if err != nil {
			t.Fatalf("Failed to create game: %v", err)
		}
		players := game.Players()
		if players[0].ID == "" || players[1].ID == "" {
			t.Error("Expected generated player ids")
		}
		if players[0].ID == players[1].ID {
			t.Error("Expected distinct ids for players sharing a name")
		}
	})
}

func TestCreateShip_ByType(t *testing.T) {
	game, player1, _ := newTestGame(t)

	err := game.CreateShip(player1.ID, AircraftCarrier, NewCoordinate(1, 1), Portrait)
	if err != nil {
		t.Fatalf("Failed to create ship: %v", err)
	}

	ships := game.PlayerShips()[player1.ID]
	if len(ships) != 1 {
		t.Fatalf("Expected 1 ship, got %d", len(ships))
	}

	expected := NewShip(AircraftCarrier, NewCoordinate(1, 1), Portrait)
	if ships[0] != expected {
		t.Errorf("Expected %v, got %v", expected, ships[0])
	}

	span := ships[0].Span()
	if span != (Span{StartCol: 1, EndCol: 1, StartRow: 1, EndRow: 5}) {
		t.Errorf("Expected span col 1 rows 1..5, got %+v", span)
	}
}

func TestCreateShip_OutOfBounds(t *testing.T) {
	tests := []struct {
		name    string
		col     int
		row     int
		wantErr error
	}{
		{"column too large", 11, 5, ErrInvalidColumn},
		{"column zero", 0, 5, ErrInvalidColumn},
		{"negative column", -3, 5, ErrInvalidColumn},
		{"row too large", 10, 30, ErrInvalidRow},
		{"row zero", 5, 0, ErrInvalidRow},
		{"both invalid reports column", 11, 11, ErrInvalidColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, player1, _ := newTestGame(t)

			err := game.CreateShip(player1.ID, PatrolBoat, NewCoordinate(tt.col, tt.row), Portrait)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if n := len(game.PlayerShips()[player1.ID]); n != 0 {
				t.Errorf("Expected fleet unchanged, got %d ships", n)
			}
		})
	}
}

func TestCreateShip_SpanBounds(t *testing.T) {
	t.Run("landscape overhang rejected", func(t *testing.T) {
		game, player1, _ := newTestGame(t)
		err := game.CreateShip(player1.ID, AircraftCarrier, NewCoordinate(10, 1), Landscape)
		if !errors.Is(err, ErrInvalidColumn) {
			t.Errorf("Expected ErrInvalidColumn, got %v", err)
		}
	})

	t.Run("portrait overhang rejected", func(t *testing.T) {
		game, player1, _ := newTestGame(t)
		err := game.CreateShip(player1.ID, Battleship, NewCoordinate(1, 8), Portrait)
		if !errors.Is(err, ErrInvalidRow) {
			t.Errorf("Expected ErrInvalidRow, got %v", err)
		}
	})

	t.Run("ship ending on last cell accepted", func(t *testing.T) {
		game, player1, _ := newTestGame(t)
		if err := game.CreateShip(player1.ID, AircraftCarrier, NewCoordinate(6, 10), Landscape); err != nil {
			t.Errorf("Expected ship to fit, got %v", err)
		}
	})

	t.Run("overhang allowed by config", func(t *testing.T) {
		config := DefaultGameConfig()
		config.AllowOverhang = true
		player1 := NewPlayer("User1")
		game, err := NewGame(config, player1, NewPlayer("Computer"))
		if err != nil {
			t.Fatalf("Failed to create game: %v", err)
		}

		if err := game.CreateShip(player1.ID, AircraftCarrier, NewCoordinate(10, 1), Landscape); err != nil {
			t.Fatalf("Expected overhang to be accepted, got %v", err)
		}
		span := game.PlayerShips()[player1.ID][0].Span()
		if span.EndCol != 14 {
			t.Errorf("Expected ship to extend to column 14, got %d", span.EndCol)
		}

		// origin is still checked
		err = game.CreateShip(player1.ID, PatrolBoat, NewCoordinate(11, 3), Landscape)
		if !errors.Is(err, ErrInvalidColumn) {
			t.Errorf("Expected ErrInvalidColumn, got %v", err)
		}
	})
}

func TestCreateShip_OverlapVertical(t *testing.T) {
	game, player1, _ := newTestGame(t)

	if err := game.CreateShip(player1.ID, AircraftCarrier, NewCoordinate(1, 5), Portrait); err != nil {
		t.Fatalf("Failed to place carrier: %v", err)
	}

	err := game.CreateShip(player1.ID, PatrolBoat, NewCoordinate(1, 9), Portrait)
	if !errors.Is(err, ErrOverlappingShip) {
		t.Errorf("Expected ErrOverlappingShip, got %v", err)
	}

	err = game.CreateShip(player1.ID, Destroyer, NewCoordinate(1, 3), Portrait)
	if !errors.Is(err, ErrOverlappingShip) {
		t.Errorf("Expected ErrOverlappingShip, got %v", err)
	}

	if n := len(game.PlayerShips()[player1.ID]); n != 1 {
		t.Errorf("Expected only the carrier to be placed, got %d ships", n)
	}
}

func TestCreateShip_OverlapHorizontal(t *testing.T) {
	game, player1, _ := newTestGame(t)

	if err := game.CreateShip(player1.ID, AircraftCarrier, NewCoordinate(2, 2), Landscape); err != nil {
		t.Fatalf("Failed to place carrier: %v", err)
	}

	tests := []struct {
		name        string
		shipType    ShipType
		coord       Coordinate
		orientation Orientation
	}{
		{"tail overlaps start", Destroyer, NewCoordinate(1, 2), Landscape},
		{"inside span", Battleship, NewCoordinate(4, 2), Landscape},
		{"head overlaps end", Submarine, NewCoordinate(6, 2), Landscape},
		{"crossing vertically", PatrolBoat, NewCoordinate(4, 1), Portrait},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := game.CreateShip(player1.ID, tt.shipType, tt.coord, tt.orientation)
			if !errors.Is(err, ErrOverlappingShip) {
				t.Errorf("Expected ErrOverlappingShip, got %v", err)
			}
		})
	}
}

func TestCreateShip_NoFalseOverlap(t *testing.T) {
	game, player1, _ := newTestGame(t)

	if err := game.CreateShip(player1.ID, AircraftCarrier, NewCoordinate(1, 1), Landscape); err != nil {
		t.Fatalf("Failed to place carrier: %v", err)
	}

	// same row, disjoint columns
	if err := game.CreateShip(player1.ID, PatrolBoat, NewCoordinate(7, 1), Landscape); err != nil {
		t.Errorf("Expected same-row disjoint ship to succeed, got %v", err)
	}
	// same column as carrier's first cell, different rows
	if err := game.CreateShip(player1.ID, Destroyer, NewCoordinate(1, 2), Portrait); err != nil {
		t.Errorf("Expected same-column disjoint ship to succeed, got %v", err)
	}
	// no shared row or column
	if err := game.CreateShip(player1.ID, Submarine, NewCoordinate(5, 6), Landscape); err != nil {
		t.Errorf("Expected disjoint ship to succeed, got %v", err)
	}
}

func TestCreateShip_OverlapIsPerPlayer(t *testing.T) {
	game, player1, player2 := newTestGame(t)

	if err := game.CreateShip(player1.ID, AircraftCarrier, NewCoordinate(3, 3), Landscape); err != nil {
		t.Fatalf("Failed to place ship for player 1: %v", err)
	}
	if err := game.CreateShip(player2.ID, AircraftCarrier, NewCoordinate(3, 3), Landscape); err != nil {
		t.Errorf("Expected same placement for player 2 to succeed, got %v", err)
	}
}

func TestCreateShip_DuplicateType(t *testing.T) {
	game, player1, _ := newTestGame(t)

	if err := game.CreateShip(player1.ID, AircraftCarrier, NewCoordinate(2, 2), Landscape); err != nil {
		t.Fatalf("Failed to place carrier: %v", err)
	}
	if err := game.CreateShip(player1.ID, Destroyer, NewCoordinate(3, 5), Landscape); err != nil {
		t.Fatalf("Failed to place destroyer: %v", err)
	}

	err := game.CreateShip(player1.ID, Destroyer, NewCoordinate(4, 8), Landscape)
	if !errors.Is(err, ErrDuplicateShipType) {
		t.Fatalf("Expected ErrDuplicateShipType, got %v", err)
	}
	if !strings.Contains(err.Error(), "Destroyer") {
		t.Errorf("Expected error to name the ship type, got %q", err.Error())
	}

	// duplicate check runs before overlap check
	err = game.CreateShip(player1.ID, AircraftCarrier, NewCoordinate(2, 2), Landscape)
	if !errors.Is(err, ErrDuplicateShipType) {
		t.Errorf("Expected ErrDuplicateShipType, got %v", err)
	}

	if n := len(game.PlayerShips()[player1.ID]); n != 2 {
		t.Errorf("Expected 2 ships, got %d", n)
	}
}

func TestCreateShip_DisplayNameInDuplicateError(t *testing.T) {
	game, player1, _ := newTestGame(t)

	if err := game.CreateShip(player1.ID, PatrolBoat, NewCoordinate(1, 1), Landscape); err != nil {
		t.Fatalf("Failed to place patrol boat: %v", err)
	}
	err := game.CreateShip(player1.ID, PatrolBoat, NewCoordinate(5, 5), Landscape)
	if err == nil || !strings.Contains(err.Error(), "Patrol Boat") {
		t.Errorf("Expected error mentioning 'Patrol Boat', got %v", err)
	}
}

func TestCreateShip_UnknownPlayer(t *testing.T) {
	game, _, _ := newTestGame(t)

	err := game.CreateShip("nobody", PatrolBoat, NewCoordinate(1, 1), Landscape)
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("Expected ErrPlayerNotFound, got %v", err)
	}
}

func TestCreateShip_InvalidInput(t *testing.T) {
	game, player1, _ := newTestGame(t)

	err := game.CreateShip(player1.ID, ShipType("rowboat"), NewCoordinate(1, 1), Landscape)
	if !errors.Is(err, ErrUnknownShipType) {
		t.Errorf("Expected ErrUnknownShipType, got %v", err)
	}

	err = game.CreateShip(player1.ID, PatrolBoat, NewCoordinate(1, 1), Orientation("diagonal"))
	if !errors.Is(err, ErrInvalidOrientation) {
		t.Errorf("Expected ErrInvalidOrientation, got %v", err)
	}
}

func TestStart_IncompleteFleets(t *testing.T) {
	t.Run("player 1 incomplete", func(t *testing.T) {
		game, _, _ := newTestGame(t)

		err := game.Start()
		if !errors.Is(err, ErrIncompleteFleet) {
			t.Fatalf("Expected ErrIncompleteFleet, got %v", err)
		}
		if !strings.Contains(err.Error(), "User1") {
			t.Errorf("Expected error to name User1, got %q", err.Error())
		}
		if game.IsStarted() || game.PlayerTurn() != nil {
			t.Error("Expected game to stay inactive")
		}
	})

	t.Run("player 2 incomplete", func(t *testing.T) {
		game, player1, _ := newTestGame(t)
		placeFleet(t, game, player1.ID)

		err := game.Start()
		if !errors.Is(err, ErrIncompleteFleet) {
			t.Fatalf("Expected ErrIncompleteFleet, got %v", err)
		}
		if !strings.Contains(err.Error(), "Computer") {
			t.Errorf("Expected error to name Computer, got %q", err.Error())
		}
	})

	t.Run("four of five types", func(t *testing.T) {
		game, player1, player2 := newTestGame(t)
		placeFleet(t, game, player1.ID)
		game.CreateShip(player2.ID, AircraftCarrier, NewCoordinate(1, 1), Landscape)
		game.CreateShip(player2.ID, Battleship, NewCoordinate(1, 2), Landscape)
		game.CreateShip(player2.ID, Destroyer, NewCoordinate(1, 3), Landscape)
		game.CreateShip(player2.ID, Submarine, NewCoordinate(1, 4), Landscape)

		err := game.Start()
		if !errors.Is(err, ErrIncompleteFleet) {
			t.Fatalf("Expected ErrIncompleteFleet, got %v", err)
		}
		if !strings.Contains(err.Error(), "Patrol Boat") {
			t.Errorf("Expected error to list the missing Patrol Boat, got %q", err.Error())
		}
	})
}

func TestStart(t *testing.T) {
	game, player1, player2 := newTestGame(t)
	placeFleet(t, game, player1.ID)
	placeFleet(t, game, player2.ID)

	if err := game.Start(); err != nil {
		t.Fatalf("Failed to start game: %v", err)
	}

	if !game.IsStarted() {
		t.Error("Expected game to be started")
	}
	current := game.PlayerTurn()
	if current == nil || *current != player1 {
		t.Errorf("Expected %v to move first, got %v", player1, current)
	}
	if game.Round() != 0 {
		t.Errorf("Expected round 0, got %d", game.Round())
	}

	t.Run("second start rejected", func(t *testing.T) {
		if err := game.Start(); !errors.Is(err, ErrAlreadyStarted) {
			t.Errorf("Expected ErrAlreadyStarted, got %v", err)
		}
	})

	t.Run("no placement after start", func(t *testing.T) {
		err := game.CreateShip(player1.ID, PatrolBoat, NewCoordinate(1, 10), Landscape)
		if !errors.Is(err, ErrGameStarted) {
			t.Errorf("Expected ErrGameStarted, got %v", err)
		}
	})
}

func TestGame_AccessorsAreStable(t *testing.T) {
	game, player1, player2 := newTestGame(t)
	placeFleet(t, game, player1.ID)
	placeFleet(t, game, player2.ID)
	game.Start()

	first := game.PlayerShips()
	first[player1.ID] = nil
	first[player1.ID+"x"] = []Ship{}

	second := game.PlayerShips()
	if len(second) != 2 || len(second[player1.ID]) != 5 {
		t.Errorf("Expected read view to be independent of callers, got %v", second)
	}

	turn := game.PlayerTurn()
	turn.Name = "changed"
	if game.PlayerTurn().Name != player1.Name {
		t.Error("Expected PlayerTurn to return a copy")
	}

	for i := 0; i < 3; i++ {
		if game.Round() != 0 {
			t.Errorf("Expected round to stay 0, got %d", game.Round())
		}
	}
}

func TestGame_MissingShipTypes(t *testing.T) {
	game, player1, _ := newTestGame(t)

	if missing := game.MissingShipTypes(player1.ID); len(missing) != 5 {
		t.Errorf("Expected 5 missing types, got %v", missing)
	}

	game.CreateShip(player1.ID, Submarine, NewCoordinate(1, 1), Landscape)
	missing := game.MissingShipTypes(player1.ID)
	expected := []ShipType{AircraftCarrier, Battleship, Destroyer, PatrolBoat}
	if len(missing) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, missing)
	}
	for i := range expected {
		if missing[i] != expected[i] {
			t.Errorf("Expected %v at %d, got %v", expected[i], i, missing[i])
		}
	}

	if game.MissingShipTypes("nobody") != nil {
		t.Error("Expected nil for unknown player")
	}
}

func TestGame_ShipAt(t *testing.T) {
	game, player1, player2 := newTestGame(t)
	game.CreateShip(player1.ID, Battleship, NewCoordinate(4, 4), Portrait)

	ship, ok := game.ShipAt(player1.ID, NewCoordinate(4, 7))
	if !ok || ship.Type() != Battleship {
		t.Errorf("Expected battleship at D7, got %v (found=%v)", ship, ok)
	}
	if _, ok := game.ShipAt(player1.ID, NewCoordinate(4, 8)); ok {
		t.Error("Expected open water at D8")
	}
	if _, ok := game.ShipAt(player2.ID, NewCoordinate(4, 4)); ok {
		t.Error("Expected other player's board to be empty")
	}
}

func TestGame_LookupPlayer(t *testing.T) {
	game, player1, player2 := newTestGame(t)

	p, err := game.LookupPlayer(string(player2.ID))
	if err != nil || p != player2 {
		t.Errorf("Expected lookup by id to find %v, got %v (%v)", player2, p, err)
	}

	p, err = game.LookupPlayer("user1")
	if err != nil || p != player1 {
		t.Errorf("Expected lookup by name to find %v, got %v (%v)", player1, p, err)
	}

	if _, err := game.LookupPlayer("ghost"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("Expected ErrPlayerNotFound, got %v", err)
	}

	twins, err := NewGame(DefaultGameConfig(), NewPlayer("Sam"), NewPlayer("Sam"))
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	if _, err := twins.LookupPlayer("Sam"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("Expected ambiguous name to fail, got %v", err)
	}
}

func TestGame_Messages(t *testing.T) {
	game, player1, player2 := newTestGame(t)

	if game.GetState().Message != DefaultGameConfig().Messages.Welcome {
		t.Errorf("Expected welcome message, got %q", game.GetState().Message)
	}

	game.CreateShip(player1.ID, PatrolBoat, NewCoordinate(1, 1), Landscape)
	if msg := game.GetState().Message; msg != "Patrol Boat positioned" {
		t.Errorf("Expected placement message, got %q", msg)
	}

	game, player1, player2 = newTestGame(t)
	placeFleet(t, game, player1.ID)
	placeFleet(t, game, player2.ID)
	if msg := game.GetState().Message; msg != DefaultGameConfig().Messages.FleetReady {
		t.Errorf("Expected fleet ready message, got %q", msg)
	}

	game.Start()
	if msg := game.GetState().Message; msg != "Game started! User1 moves first" {
		t.Errorf("Expected start message, got %q", msg)
	}
}
