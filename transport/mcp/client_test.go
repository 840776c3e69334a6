package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/fleet-command/api"
	"github.com/wricardo/fleet-command/game/config"
	"github.com/wricardo/fleet-command/game/engine"
	"github.com/wricardo/fleet-command/game/service"
	"github.com/wricardo/fleet-command/game/session"
)

func toolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash to be trimmed, got %s", client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("Expected /api/health, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "healthy"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api/health", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %v", response["status"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall(context.Background(), "GET", "/api/health", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/api/health", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error: 500") {
		t.Errorf("Expected 'API error: 500' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "duplicate ship type: destroyer",
			"code":  "duplicate_ship_type",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "POST", "/api/sessions/abcd/ships", map[string]string{}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", apiErr.Status)
	}
	if apiErr.Code != "duplicate_ship_type" {
		t.Errorf("Expected code duplicate_ship_type, got %s", apiErr.Code)
	}
	if !strings.Contains(err.Error(), "duplicate ship type: destroyer") {
		t.Errorf("Expected message in error, got: %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		var req service.CreateSessionRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Player1 != "Alice" || req.Player2 != "Bob" {
			t.Errorf("Expected players Alice and Bob, got %+v", req)
		}

		resp := service.SessionInfo{
			ID:         "test-session-123",
			ConfigName: "classic",
			GameState: &engine.GameState{
				ConfigName: "Classic",
				Columns:    10,
				Rows:       10,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleCreateSession(context.Background(), toolRequest("create_session", map[string]interface{}{
		"player1": "Alice",
		"player2": "Bob",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "test-session-123") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
	if !strings.Contains(text, "Board: Classic (10x10)") {
		t.Errorf("Expected board summary in result, got: %s", text)
	}
}

func TestFormatGameState(t *testing.T) {
	alice := engine.Player{ID: "p1", Name: "Alice"}
	state := &engine.GameState{
		ConfigName: "Classic",
		Columns:    10,
		Rows:       10,
		Players:    []engine.Player{alice, {ID: "p2", Name: "Bob"}},
		Fleets: []engine.Fleet{
			{PlayerID: "p1", PlayerName: "Alice", Complete: true, Ships: make([]engine.Ship, 5)},
			{PlayerID: "p2", PlayerName: "Bob", Missing: []engine.ShipType{engine.Destroyer, engine.PatrolBoat}, Ships: make([]engine.Ship, 3)},
		},
		Message: "Welcome, admirals!",
	}

	result := formatGameState(state)

	expected := []string{
		"Board: Classic (10x10)",
		"Status: setup",
		"Message: Welcome, admirals!",
		"- Alice (p1): complete",
		"- Bob (p2): 3/5 placed, missing Destroyer, Patrol Boat",
	}
	for _, s := range expected {
		if !strings.Contains(result, s) {
			t.Errorf("Expected '%s' in formatted state, got:\n%s", s, result)
		}
	}
}

func TestFormatGameState_Started(t *testing.T) {
	alice := engine.Player{ID: "p1", Name: "Alice"}
	state := &engine.GameState{
		ConfigName:    "Classic",
		Columns:       10,
		Rows:          10,
		Started:       true,
		CurrentPlayer: &alice,
	}

	result := formatGameState(state)
	if !strings.Contains(result, "Status: started, round 0, Alice to move") {
		t.Errorf("Expected started status, got:\n%s", result)
	}

	if formatGameState(nil) != "Game state unavailable" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatPlacementResult(t *testing.T) {
	result := &service.PlacementResult{
		Success: true,
		Player:  engine.Player{ID: "p1", Name: "Alice"},
		Ship:    engine.NewShip(engine.Destroyer, engine.NewCoordinate(2, 3), engine.Portrait),
		Missing: []engine.ShipType{engine.Submarine},
	}

	text := formatPlacementResult(result)
	if !strings.Contains(text, "Alice positioned") {
		t.Errorf("Expected placement line, got:\n%s", text)
	}
	if !strings.Contains(text, "Still to position: Submarine") {
		t.Errorf("Expected missing ships, got:\n%s", text)
	}

	result.Missing = nil
	result.FleetComplete = true
	result.ReadyToStart = true
	text = formatPlacementResult(result)
	if !strings.Contains(text, "Alice's fleet is complete.") {
		t.Errorf("Expected fleet complete line, got:\n%s", text)
	}
	if !strings.Contains(text, "start_game") {
		t.Errorf("Expected start hint, got:\n%s", text)
	}
}

func TestFormatCell(t *testing.T) {
	player := engine.Player{ID: "p1", Name: "Alice"}
	ship := engine.NewShip(engine.Battleship, engine.NewCoordinate(8, 1), engine.Portrait)

	occupied := formatCell(&service.CellInfo{Player: player, Label: "H3", Occupied: true, Ship: &ship})
	if !strings.Contains(occupied, "H3 on Alice's grid is part of") {
		t.Errorf("Unexpected occupied cell text: %s", occupied)
	}

	water := formatCell(&service.CellInfo{Player: player, Label: "A1"})
	if water != "A1 on Alice's grid is open water." {
		t.Errorf("Unexpected water cell text: %s", water)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), toolRequest("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	expectedContent := []string{
		"Fleet Command - Setup Rules",
		"THE FLEET (one of each):",
		"COORDINATES:",
		"PLACEMENT RULES:",
		"STARTING:",
		"ERROR CODES:",
		"SUGGESTED FLOW:",
	}

	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}

func TestClient_SetupFlow(t *testing.T) {
	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	gameService := service.NewGameService(session.NewManager(), configManager)
	apiServer := httptest.NewServer(api.NewServer(gameService, nil))
	defer apiServer.Close()

	client := NewClient(apiServer.URL)
	ctx := context.Background()

	var info service.SessionInfo
	err = client.apiCall(ctx, "POST", "/api/sessions", service.CreateSessionRequest{
		ConfigName: "classic",
		Player1:    "Alice",
		Player2:    "Bob",
	}, &info)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	fleet := []map[string]interface{}{
		{"ship_type": "aircraft_carrier", "coordinate": "B1", "orientation": "landscape"},
		{"ship_type": "battleship", "coordinate": "H1", "orientation": "portrait"},
		{"ship_type": "destroyer", "coordinate": "C8", "orientation": "portrait"},
		{"ship_type": "patrol_boat", "coordinate": "E5", "orientation": "landscape"},
		{"ship_type": "submarine", "coordinate": "H7", "orientation": "landscape"},
	}

	for _, player := range []string{"Alice", "Bob"} {
		for _, ship := range fleet {
			args := map[string]interface{}{"session_id": info.ID, "player": player}
			for k, v := range ship {
				args[k] = v
			}
			result, err := client.handlePlaceShip(ctx, toolRequest("place_ship", args))
			if err != nil {
				t.Fatalf("place_ship returned error: %v", err)
			}
			if result.IsError {
				t.Fatalf("place_ship failed for %s: %s", player, resultText(t, result))
			}
		}
	}

	// Duplicate ship type surfaces the API error code
	result, _ := client.handlePlaceShip(ctx, toolRequest("place_ship", map[string]interface{}{
		"session_id":  info.ID,
		"player":      "Alice",
		"ship_type":   "destroyer",
		"coordinate":  "J1",
		"orientation": "portrait",
	}))
	if !result.IsError || !strings.Contains(resultText(t, result), "duplicate_ship_type") {
		t.Errorf("Expected duplicate_ship_type error, got: %s", resultText(t, result))
	}

	result, _ = client.handleFleetBoard(ctx, toolRequest("fleet_board", map[string]interface{}{
		"session_id": info.ID,
		"player":     "Bob",
	}))
	if text := resultText(t, result); !strings.Contains(text, "Fleet complete.") {
		t.Errorf("Expected Bob's fleet to be complete, got:\n%s", text)
	}

	result, _ = client.handleDescribeCell(ctx, toolRequest("describe_cell", map[string]interface{}{
		"session_id": info.ID,
		"player":     "Bob",
		"coordinate": "H3",
	}))
	if text := resultText(t, result); !strings.Contains(text, "Battleship") {
		t.Errorf("Expected battleship at H3, got: %s", text)
	}

	result, _ = client.handleStartGame(ctx, toolRequest("start_game", map[string]interface{}{"session_id": info.ID}))
	if result.IsError {
		t.Fatalf("start_game failed: %s", resultText(t, result))
	}
	if text := resultText(t, result); !strings.Contains(text, "Alice to move") {
		t.Errorf("Expected Alice to move first, got:\n%s", text)
	}

	result, _ = client.handleListShipTypes(ctx, toolRequest("list_ship_types", map[string]interface{}{}))
	if text := resultText(t, result); !strings.Contains(text, "Aircraft Carrier (aircraft_carrier) size 5") {
		t.Errorf("Expected ship types, got:\n%s", text)
	}

	result, _ = client.handleListConfigs(ctx, toolRequest("list_configs", map[string]interface{}{}))
	if text := resultText(t, result); !strings.Contains(text, "config_name: classic") {
		t.Errorf("Expected classic config, got:\n%s", text)
	}
}
