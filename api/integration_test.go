package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wricardo/fleet-command/game/config"
	"github.com/wricardo/fleet-command/game/engine"
	"github.com/wricardo/fleet-command/game/service"
	"github.com/wricardo/fleet-command/game/session"
)

func setupRealServer(t *testing.T) *Server {
	t.Helper()
	configManager, err := config.NewManager("../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	persistence, err := session.NewFilePersistence(t.TempDir(), configManager)
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}
	sessions := session.NewManagerWithPersistence(persistence)
	return NewServer(service.NewGameService(sessions, configManager), nil)
}

func TestSetupFlowEndToEnd(t *testing.T) {
	server := setupRealServer(t)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest(method, path, body))
		return w
	}

	w := do("POST", "/api/sessions", map[string]string{"config_name": "classic", "player1": "Alice", "player2": "Bob"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var info service.SessionInfo
	parseResponse(t, w, &info)
	base := "/api/sessions/" + info.ID

	fleet := []map[string]string{
		{"ship_type": "aircraft_carrier", "coordinate": "B1", "orientation": "landscape"},
		{"ship_type": "battleship", "coordinate": "H1", "orientation": "portrait"},
		{"ship_type": "destroyer", "coordinate": "C8", "orientation": "portrait"},
		{"ship_type": "patrol_boat", "coordinate": "E5", "orientation": "landscape"},
		{"ship_type": "submarine", "coordinate": "H7", "orientation": "landscape"},
	}

	// Starting before any ship is placed is rejected
	if w := do("POST", base+"/start", nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for early start, got %d", w.Code)
	}

	for _, player := range []string{"Alice", "Bob"} {
		for _, ship := range fleet {
			ship["player"] = player
			if w := do("POST", base+"/ships", ship); w.Code != http.StatusOK {
				t.Fatalf("Failed to place %s for %s: %d %s", ship["ship_type"], player, w.Code, w.Body.String())
			}
		}
	}

	errorCases := []struct {
		name   string
		body   map[string]string
		status int
		code   string
	}{
		{"duplicate", map[string]string{"player": "Alice", "ship_type": "destroyer", "coordinate": "J1", "orientation": "portrait"}, http.StatusConflict, "duplicate_ship_type"},
		{"unknown player", map[string]string{"player": "Mallory", "ship_type": "destroyer", "coordinate": "J1", "orientation": "portrait"}, http.StatusNotFound, "player_not_found"},
		{"unknown ship", map[string]string{"player": "Alice", "ship_type": "canoe", "coordinate": "J1", "orientation": "portrait"}, http.StatusBadRequest, "unknown_ship_type"},
	}
	for _, tc := range errorCases {
		w := do("POST", base+"/ships", tc.body)
		var resp ErrorResponse
		parseResponse(t, w, &resp)
		if w.Code != tc.status || resp.Code != tc.code {
			t.Errorf("%s: expected %d/%s, got %d/%s", tc.name, tc.status, tc.code, w.Code, resp.Code)
		}
	}

	w = do("GET", base+"/players/Bob/cells/H/3", nil)
	var cell service.CellInfo
	parseResponse(t, w, &cell)
	if !cell.Occupied || cell.Ship.Type() != engine.Battleship {
		t.Errorf("Expected Bob's battleship at H3, got %+v", cell)
	}

	w = do("GET", base+"/players/Alice/board", nil)
	// Column header plus five carrier cells
	if n := strings.Count(w.Body.String(), "A"); n != 6 {
		t.Errorf("Expected 6 'A' cells on Alice's board, got %d:\n%s", n, w.Body.String())
	}

	w = do("POST", base+"/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for start, got %d: %s", w.Code, w.Body.String())
	}
	var started service.StartResult
	parseResponse(t, w, &started)
	if started.CurrentPlayer.Name != "Alice" || started.Round != 0 {
		t.Errorf("Expected Alice to move first in round 0, got %+v", started)
	}

	if w := do("POST", base+"/start", nil); w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for second start, got %d", w.Code)
	}
	if w := do("POST", base+"/ships", fleet[0]); w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for placement after start, got %d", w.Code)
	}
}
