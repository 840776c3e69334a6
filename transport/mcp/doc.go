// Package mcp exposes Fleet Command to AI agents over the Model Context Protocol.
//
// The client is a thin proxy: every tool call is translated into a request
// against the REST API, so the MCP surface never touches game state directly.
//
// MCP Tools:
//   - create_session: Create a match with optional board and player names
//   - list_sessions / get_session: Inspect matches
//   - game_state: Players, fleet progress and whose turn it is
//   - place_ship: Position one ship by coordinate label and orientation
//   - start_game: Start the match once both fleets are complete
//   - fleet_board: A player's rendered grid plus missing ships
//   - describe_cell: Whether a cell is open water or part of a ship
//   - list_configs / list_ship_types: Reference data
//   - game_instructions: The setup rules
//
// Failed API calls are returned as tool errors that carry the API's error
// code (for example "overlapping_ship"), so agents can react to the reason.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
