// Package api provides the HTTP REST API for Fleet Command.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a match ({"config_name", "player1", "player2"})
//   - GET /api/sessions - List matches (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one match
//   - DELETE /api/sessions/{id} - Delete a match
//   - GET /api/sessions/{id}/qr - PNG QR code linking to the match
//
// Setup:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/ships - Position one ship
//   - POST /api/sessions/{id}/start - Start the match
//
// Boards:
//   - GET /api/sessions/{id}/players/{player}/fleet - Fleet and rendered board as JSON
//   - GET /api/sessions/{id}/players/{player}/board - Rendered board as text
//   - GET /api/sessions/{id}/players/{player}/cells/{col}/{row} - What occupies one cell
//
// The {player} segment is a player id or a unique player name. {col} is a
// number or a column letter.
//
// Configuration:
//   - GET /api/configs - List board configurations
//   - POST /api/configs - Save a board configuration
//   - GET /api/configs/{name} - Get one board configuration
//   - GET /api/ship-types - The five ship types with sizes and symbols
//
// Live Updates:
//   - GET /ws?session={id} - WebSocket stream of state and setup events
//
// Placement requests name the target cell either by number or by label:
//
//	{"player": "Alice", "ship_type": "destroyer", "col": 2, "row": 3, "orientation": "portrait"}
//	{"player": "Alice", "ship_type": "destroyer", "coordinate": "B3", "orientation": "portrait"}
//
// Error Handling:
//
// Errors are returned as JSON with a stable code:
//
//	{
//	  "error": "overlapping ship: destroyer at B3 overlaps submarine at B4",
//	  "code": "overlapping_ship"
//	}
//
// Unknown sessions, players and configs are 404. Duplicate ship types,
// overlaps and setup after start are 409. Out-of-range cells and starting
// with an incomplete fleet are 422. Malformed input is 400.
package api
