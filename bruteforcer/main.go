// Command bruteforcer fills both fleets of a match through the REST API by
// proposing random placements until the server accepts one for every ship,
// then starts the match.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/wricardo/fleet-command/game/engine"
	"github.com/wricardo/fleet-command/game/service"
)

// APIError is a rejected REST call
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		json.Unmarshal(data, apiErr)
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) CreateSession(configName, player1, player2 string) (*engine.GameState, error) {
	var session service.SessionInfo
	req := service.CreateSessionRequest{ConfigName: configName, Player1: player1, Player2: player2}
	if err := c.do("POST", "/api/sessions", req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState() (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do("GET", "/api/sessions/"+c.sessionID+"/state", nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

func (c *Client) PlaceShip(player engine.PlayerID, shipType engine.ShipType, candidate Candidate) (*service.PlacementResult, error) {
	req := service.PlacementRequest{
		Player:      string(player),
		ShipType:    string(shipType),
		Col:         candidate.Origin.Col,
		Row:         candidate.Origin.Row,
		Orientation: string(candidate.Orientation),
	}

	var result service.PlacementResult
	if err := c.do("POST", "/api/sessions/"+c.sessionID+"/ships", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Start() (*service.StartResult, error) {
	var result service.StartResult
	if err := c.do("POST", "/api/sessions/"+c.sessionID+"/start", nil, &result); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	return &result, nil
}

// retryable reports whether a rejected placement should be retried elsewhere
func retryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case "overlapping_ship", "invalid_column", "invalid_row":
		return true
	}
	return false
}

// placeFleets proposes placements for every missing ship of every player
// and returns the number of proposals the server rejected.
func placeFleets(client *Client, state *engine.GameState, strategy *RandomStrategy, verbose bool) (int, error) {
	rejected := 0
	for _, fleet := range state.Fleets {
		for _, shipType := range fleet.Missing {
			strategy.Reset()
			placed := false
			for !placed {
				candidate, ok := strategy.Next()
				if !ok {
					return rejected, fmt.Errorf("no room left for %s of %s", shipType.DisplayName(), fleet.PlayerName)
				}

				result, err := client.PlaceShip(fleet.PlayerID, shipType, candidate)
				if err != nil {
					if !retryable(err) {
						return rejected, fmt.Errorf("place %s for %s: %w", shipType.DisplayName(), fleet.PlayerName, err)
					}
					rejected++
					if verbose {
						log.Printf("Rejected %s at %s (%s): %v", shipType.DisplayName(), candidate.Origin, candidate.Orientation, err)
					}
					continue
				}

				placed = true
				log.Printf("%s: %s", fleet.PlayerName, result.Ship)
			}
		}
	}
	return rejected, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configName := flag.String("config", "", "Board configuration name (classic, compact, wide, legacy)")
	continueSession := flag.String("continue", "", "Resume filling an existing session by ID")
	player1 := flag.String("player1", "Alice", "Name of the first player")
	player2 := flag.String("player2", "Bob", "Name of the second player")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for placements")
	noStart := flag.Bool("no-start", false, "Leave the match in setup once both fleets are complete")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	var state *engine.GameState
	var err error

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := *continueSession
	if savedSessionID == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		client.sessionID = savedSessionID
		log.Printf("Resuming session: %s", client.sessionID)
		state, err = client.GetState()
		if err != nil || state.Started {
			log.Printf("Cannot resume session (expired or already started), creating a new one")
			savedSessionID = ""
		}
	}

	if savedSessionID == "" {
		state, err = client.CreateSession(*configName, *player1, *player2)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("Session created: %s (%s, %dx%d)", client.sessionID, state.ConfigName, state.Columns, state.Rows)

		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	strategy := NewRandomStrategy(state.Columns, state.Rows, *seed)
	rejected, err := placeFleets(client, state, strategy, *verbose)
	if err != nil {
		log.Fatalf("Failed to place fleets: %v", err)
	}
	log.Printf("Both fleets placed, %d proposals rejected", rejected)

	if *noStart {
		log.Printf("Session: %s", client.sessionID)
		return
	}

	started, err := client.Start()
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	log.Printf("%s", started.Message)
	log.Printf("Session: %s", client.sessionID)
}
