package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/fleet-command/game/engine"
	"github.com/wricardo/fleet-command/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// APIError is a failed REST call, carrying the API's error code
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: %d", e.Status)
	}
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Fleet Command",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Fleet Command - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Two admirals each position a fleet of five ships on their own grid. Once both
fleets are complete the match can be started.

AVAILABLE TOOLS:
- create_session: Create a match between two named players
- list_sessions / get_session: Inspect matches
- game_state: Current state of a match
- place_ship: Position one ship for a player
- start_game: Start the match once both fleets are complete
- fleet_board: A player's ships drawn on their grid
- describe_cell: What occupies one cell of a player's grid
- list_configs: Available boards
- list_ship_types: The five ship types and their sizes
- game_instructions: Full rules`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func playerProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Player id or unique player name",
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new match with optional board and player names",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Board config id (optional, see list_configs)",
				},
				"player1": map[string]interface{}{
					"type":        "string",
					"description": "Name of the first player, who moves first (optional)",
				},
				"player2": map[string]interface{}{
					"type":        "string",
					"description": "Name of the second player (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all matches",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific match",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current state of a match: players, fleet progress and whose turn it is",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	// Setup
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_ship",
		Description: "Position one ship. The ship's origin is its top-left cell; landscape ships extend right, portrait ships extend down.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"player":     playerProperty(),
				"ship_type": map[string]interface{}{
					"type":        "string",
					"enum":        shipTypeNames(),
					"description": "Ship to position",
				},
				"coordinate": map[string]interface{}{
					"type":        "string",
					"description": "Origin cell as column letter and row number, e.g. B7",
				},
				"orientation": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(engine.Landscape), string(engine.Portrait)},
					"description": "landscape (horizontal) or portrait (vertical)",
				},
			},
			Required: []string{"session_id", "player", "ship_type", "coordinate", "orientation"},
		},
	}, c.handlePlaceShip)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start the match. Fails until both fleets are complete.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleStartGame)

	// Boards
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "fleet_board",
		Description: "Show a player's positioned ships drawn on their grid, plus the ships still missing",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"player":     playerProperty(),
			},
			Required: []string{"session_id", "player"},
		},
	}, c.handleFleetBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Report whether a cell of a player's grid is open water or part of a ship",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"player":     playerProperty(),
				"coordinate": map[string]interface{}{
					"type":        "string",
					"description": "Cell as column letter and row number, e.g. B7",
				},
			},
			Required: []string{"session_id", "player", "coordinate"},
		},
	}, c.handleDescribeCell)

	// Reference
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available boards",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_ship_types",
		Description: "List the five ship types with their sizes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListShipTypes)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete setup rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

func shipTypeNames() []string {
	types := engine.AllShipTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return &APIError{Status: resp.StatusCode, Code: errResp.Code, Message: errResp.Error}
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// stringArg reads a string argument, returning "" when absent
func stringArg(request mcp.CallToolRequest, name string) string {
	args, _ := request.Params.Arguments.(map[string]interface{})
	s, _ := args[name].(string)
	return strings.TrimSpace(s)
}

func sessionPath(sessionID string, parts ...string) string {
	path := "/api/sessions/" + url.PathEscape(sessionID)
	for _, p := range parts {
		path += "/" + url.PathEscape(p)
	}
	return path
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := service.CreateSessionRequest{
		ConfigName: stringArg(request, "config_name"),
		Player1:    stringArg(request, "player1"),
		Player2:    stringArg(request, "player2"),
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\n\n%s", session.ID, formatSessionInfo(&session))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "setup"
		if s.GameState != nil && s.GameState.Started {
			status = "started"
		}
		fmt.Fprintf(&b, "- %s (Config: %s, %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handlePlaceShip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")
	body := service.PlacementRequest{
		Player:      stringArg(request, "player"),
		ShipType:    stringArg(request, "ship_type"),
		Coordinate:  stringArg(request, "coordinate"),
		Orientation: stringArg(request, "orientation"),
	}

	var result service.PlacementResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "ships"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlacementResult(&result)), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")

	var result service.StartResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "start"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", result.Message, formatGameState(result.GameState))), nil
}

func (c *Client) handleFleetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")
	player := stringArg(request, "player")

	var fleet service.FleetView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "players", player, "fleet"), nil, &fleet); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFleet(&fleet)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")
	player := stringArg(request, "player")

	coord, err := engine.ParseCoordinate(stringArg(request, "coordinate"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cell service.CellInfo
	path := sessionPath(sessionID, "players", player, "cells", fmt.Sprint(coord.Col), fmt.Sprint(coord.Row))
	if err := c.apiCall(ctx, "GET", path, nil, &cell); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCell(&cell)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Boards:\n\n")
	for _, config := range configs {
		overhang := ""
		if config.AllowOverhang {
			overhang = ", ships may overhang the edge"
		}
		fmt.Fprintf(&b, "• %s (config_name: %s)\n  %s\n  Grid: %dx%d%s\n\n",
			config.Name, config.ConfigID, config.Description, config.Columns, config.Rows, overhang)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListShipTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var types []service.ShipTypeInfo
	if err := c.apiCall(ctx, "GET", "/api/ship-types", nil, &types); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Ship Types:\n\n")
	for _, t := range types {
		fmt.Fprintf(&b, "• %s (%s) size %d, shown as %s\n", t.Name, string(t.Type), t.Size, t.Symbol)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `Fleet Command - Setup Rules

OBJECTIVE:
Each of the two players positions a complete fleet on their own grid. The
match starts once both fleets are complete, and player 1 moves first.

THE FLEET (one of each):
• Aircraft Carrier (aircraft_carrier) - 5 cells, shown as A
• Battleship (battleship) - 4 cells, shown as B
• Destroyer (destroyer) - 3 cells, shown as D
• Submarine (submarine) - 3 cells, shown as S
• Patrol Boat (patrol_boat) - 2 cells, shown as P

COORDINATES:
• Columns are letters starting at A, rows are numbers starting at 1
• A ship's coordinate is its origin: the top-left cell it covers
• landscape ships extend to the right of the origin
• portrait ships extend downward from the origin

PLACEMENT RULES:
• The whole ship must fit on the grid (some boards only check the origin)
• A player may have only one ship of each type
• A player's ships may not overlap each other
• The two players' grids are independent
• A rejected placement changes nothing
• Ships can no longer be positioned once the match has started

STARTING:
• start_game succeeds only when both fleets have all five ships
• A match can only be started once

ERROR CODES:
• invalid_column / invalid_row - the ship does not fit on the grid
• duplicate_ship_type - the player already has that ship
• overlapping_ship - the ship would overlap another of the player's ships
• player_not_found - no player with that id or name
• incomplete_fleet - a fleet is still missing ships
• game_started / already_started - the match has already begun

SUGGESTED FLOW:
1. list_configs, then create_session with two player names
2. place_ship five times for each player
3. Check progress with fleet_board or game_state
4. start_game`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast Accessed: %s\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return result
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "Game state unavailable"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Board: %s (%dx%d)\n", state.ConfigName, state.Columns, state.Rows)

	if state.Started && state.CurrentPlayer != nil {
		fmt.Fprintf(&b, "Status: started, round %d, %s to move\n", state.Round, state.CurrentPlayer.Name)
	} else {
		b.WriteString("Status: setup\n")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}

	b.WriteString("\nFleets:\n")
	for _, fleet := range state.Fleets {
		if fleet.Complete {
			fmt.Fprintf(&b, "- %s (%s): complete\n", fleet.PlayerName, fleet.PlayerID)
			continue
		}
		fmt.Fprintf(&b, "- %s (%s): %d/%d placed, missing %s\n",
			fleet.PlayerName, fleet.PlayerID, len(fleet.Ships), len(engine.AllShipTypes()), joinShipTypes(fleet.Missing))
	}

	return b.String()
}

func formatPlacementResult(result *service.PlacementResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %s positioned %s\n", result.Player.Name, result.Ship)

	if result.FleetComplete {
		fmt.Fprintf(&b, "%s's fleet is complete.\n", result.Player.Name)
	} else {
		fmt.Fprintf(&b, "Still to position: %s\n", joinShipTypes(result.Missing))
	}
	if result.ReadyToStart {
		b.WriteString("Both fleets are complete. Call start_game to begin.\n")
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}
	return b.String()
}

func formatFleet(fleet *service.FleetView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fleet of %s (%s)\n\n", fleet.Player.Name, fleet.Player.ID)
	b.WriteString(fleet.Board)
	b.WriteString("\n")

	for _, ship := range fleet.Ships {
		fmt.Fprintf(&b, "- %s\n", ship)
	}
	if fleet.Complete {
		b.WriteString("Fleet complete.\n")
	} else {
		fmt.Fprintf(&b, "Missing: %s\n", joinShipTypes(fleet.Missing))
	}
	return b.String()
}

func formatCell(cell *service.CellInfo) string {
	if !cell.Occupied || cell.Ship == nil {
		return fmt.Sprintf("%s on %s's grid is open water.", cell.Label, cell.Player.Name)
	}
	return fmt.Sprintf("%s on %s's grid is part of %s.", cell.Label, cell.Player.Name, cell.Ship)
}

func joinShipTypes(types []engine.ShipType) string {
	if len(types) == 0 {
		return "none"
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.DisplayName()
	}
	return strings.Join(names, ", ")
}
