// Package engine provides the core rules for Fleet Command, a Battleship-style
// setup engine.
//
// The engine package implements:
//   - Ship placement validation on a bounded grid
//   - Duplicate ship type and overlap detection per player
//   - Fleet completeness checks and game start gating
//   - Turn tracking (round counter and current player)
//   - Board configuration loading and validation
//
// Core Types:
//
// Game implements the Engine interface and owns both players and their
// fleets. A Ship is built from a ShipType, an origin Coordinate and an
// Orientation; its size always comes from its type and its Span is the only
// geometry used for overlap checks. GameState is a serializable snapshot that
// RestoreGame turns back into a Game.
//
// Usage:
//
//	alice := engine.NewPlayer("Alice")
//	bob := engine.NewPlayer("Bob")
//	game, err := engine.NewGame(engine.DefaultGameConfig(), alice, bob)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = game.CreateShip(alice.ID, engine.AircraftCarrier,
//		engine.NewCoordinate(1, 1), engine.Portrait)
//	if errors.Is(err, engine.ErrOverlappingShip) {
//		// pick another spot
//	}
//
//	// once both fleets are complete
//	if err := game.Start(); err != nil {
//		log.Println(err)
//	}
//
// Rules:
//
// Columns and rows are 1-based. A player may position one ship of each of the
// five types; ships of the same player may not share a cell. The game starts
// once both fleets are complete and player 1 moves first. By default the whole
// ship must lie on the grid; configurations with allow_overhang only check the
// origin cell.
package engine
