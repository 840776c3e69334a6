// Package service provides the business logic layer for Fleet Command.
//
// The service package implements:
//   - Multi-session match management
//   - Ship placement and game start on behalf of transports
//   - Player lookup by id or unique name
//   - Board configuration access
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. A single service-wide lock serializes every mutation, so
// two requests against the same match never interleave, and each successful
// mutation is persisted through the SessionManager.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, service.CreateSessionRequest{
//		ConfigName: "classic",
//		Player1:    "Alice",
//		Player2:    "Bob",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_, err = gameService.PlaceShip(ctx, info.ID, service.PlacementRequest{
//		Player:      "Alice",
//		ShipType:    "destroyer",
//		Coordinate:  "B7",
//		Orientation: "portrait",
//	})
//
// Errors:
//
// Rule violations are returned unchanged from the engine and can be matched
// with errors.Is against the engine.Err* values. Missing sessions wrap
// ErrSessionNotFound and unknown boards wrap ErrConfigNotFound.
package service
