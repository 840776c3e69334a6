package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	qr "github.com/skip2/go-qrcode"
	"github.com/wricardo/fleet-command/game/engine"
	"github.com/wricardo/fleet-command/game/service"
	"github.com/wricardo/fleet-command/transport/websocket"
)

// qrSize is the edge length in pixels of generated join codes
const qrSize = 256

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router

	// mutations pairs each placement or start with its broadcast, so
	// watchers receive states in the order they were produced
	mutations sync.Mutex
}

// NewServer creates a new API server. hub may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/qr", s.handleSessionQR).Methods("GET")

	// Setup
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/ships", s.handlePlaceShip).Methods("POST")
	api.HandleFunc("/sessions/{id}/start", s.handleStartGame).Methods("POST")

	// Boards
	api.HandleFunc("/sessions/{id}/players/{player}/fleet", s.handleGetFleet).Methods("GET")
	api.HandleFunc("/sessions/{id}/players/{player}/board", s.handleGetBoard).Methods("GET")
	api.HandleFunc("/sessions/{id}/players/{player}/cells/{col}/{row}", s.handleDescribeCell).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")
	api.HandleFunc("/ship-types", s.handleListShipTypes).Methods("GET")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondError(w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	respondJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

// classifyError maps a service or rule error to an HTTP status and a stable code
func classifyError(err error) (int, string) {
	code := engine.ErrorCode(err)

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, service.ErrConfigNotFound):
		return http.StatusNotFound, "config_not_found"
	case errors.Is(err, engine.ErrPlayerNotFound):
		return http.StatusNotFound, code
	case errors.Is(err, engine.ErrDuplicateShipType),
		errors.Is(err, engine.ErrOverlappingShip),
		errors.Is(err, engine.ErrGameStarted),
		errors.Is(err, engine.ErrAlreadyStarted):
		return http.StatusConflict, code
	case errors.Is(err, engine.ErrInvalidColumn),
		errors.Is(err, engine.ErrInvalidRow),
		errors.Is(err, engine.ErrIncompleteFleet):
		return http.StatusUnprocessableEntity, code
	case errors.Is(err, engine.ErrUnknownShipType),
		errors.Is(err, engine.ErrInvalidOrientation):
		return http.StatusBadRequest, code
	case errors.Is(err, service.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid_config"
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	}
	return http.StatusInternalServerError, "internal"
}

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", service.ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		service.CreateSessionRequest
		ConfigID string `json:"config_id,omitempty"`
	}

	// An empty body selects the default board and seat names
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, invalidRequest("invalid request body"))
		return
	}

	// config_id and config_name are interchangeable
	if req.ConfigName == "" {
		req.ConfigName = req.ConfigID
	}

	session, err := s.service.CreateSession(r.Context(), req.CreateSessionRequest)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// handleSessionQR returns a PNG join code pointing at the session resource
func (s *Server) handleSessionQR(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		respondError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/api/sessions/%s", scheme, r.Host, sessionID)

	png, err := qr.Encode(url, qr.Medium, qrSize)
	if err != nil {
		respondError(w, fmt.Errorf("QR generation failed: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Setup Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handlePlaceShip(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req service.PlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, invalidRequest("invalid request body"))
		return
	}

	s.mutations.Lock()
	res, err := s.service.PlaceShip(r.Context(), sessionID, req)
	if err == nil {
		s.broadcast(res.SessionID, res.GameState, res.Events)
	}
	s.mutations.Unlock()

	if err != nil {
		_, code := classifyError(err)
		fmt.Printf("[PLACE] session=%s player=%s ship=%s status=FAIL code=%s\n",
			sessionID, req.Player, req.ShipType, code)
		respondError(w, err)
		return
	}

	fmt.Printf("[PLACE] session=%s player=%s ship=%s missing=%d status=OK\n",
		sessionID, res.Player.Name, res.Ship, len(res.Missing))

	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	s.mutations.Lock()
	result, err := s.service.StartGame(r.Context(), sessionID)
	if err == nil {
		s.broadcast(result.SessionID, result.GameState, result.Events)
	}
	s.mutations.Unlock()

	if err != nil {
		_, code := classifyError(err)
		fmt.Printf("[START] session=%s status=FAIL code=%s\n", sessionID, code)
		respondError(w, err)
		return
	}

	fmt.Printf("[START] session=%s first=%s round=%d status=OK\n",
		sessionID, result.CurrentPlayer.Name, result.Round)

	respondJSON(w, http.StatusOK, result)
}

// broadcast pushes the new state and each setup event to session watchers.
// sessionID must be the stored id.
func (s *Server) broadcast(sessionID string, state *engine.GameState, events []service.GameEvent) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToSession(sessionID, state)
	for _, event := range events {
		s.hub.BroadcastEvent(sessionID, websocket.EventSetup, event)
	}
}

// Board Handlers

func (s *Server) handleGetFleet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	fleet, err := s.service.GetFleet(r.Context(), vars["id"], vars["player"])
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, fleet)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	fleet, err := s.service.GetFleet(r.Context(), vars["id"], vars["player"])
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, fleet.Board)
}

func (s *Server) handleDescribeCell(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	col, err := parseColumn(vars["col"])
	if err != nil {
		respondError(w, err)
		return
	}
	row, err := strconv.Atoi(vars["row"])
	if err != nil {
		respondError(w, &engine.RuleError{Kind: engine.ErrInvalidRow, Msg: fmt.Sprintf("%q is not a row number", vars["row"])})
		return
	}

	cell, err := s.service.DescribeCell(r.Context(), vars["id"], vars["player"], col, row)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cell)
}

// parseColumn accepts a column number ("3") or letter ("C")
func parseColumn(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if len(s) == 1 {
		c := strings.ToUpper(s)[0]
		if c >= 'A' && c <= 'Z' {
			return int(c-'A') + 1, nil
		}
	}
	return 0, &engine.RuleError{Kind: engine.ErrInvalidColumn, Msg: fmt.Sprintf("%q is not a column", s)}
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		engine.GameConfig
		ConfigID string `json:"config_id,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, invalidRequest("invalid request body"))
		return
	}

	if req.Name == "" {
		respondError(w, invalidRequest("config name is required"))
		return
	}

	// The file name defaults to the lowercased display name
	configID := req.ConfigID
	if configID == "" {
		configID = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(req.Name), " ", "_"))
	}

	if err := s.service.SaveConfig(r.Context(), configID, &req.GameConfig); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

func (s *Server) handleListShipTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.ListShipTypes(r.Context()))
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "live updates disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	// Watchers are keyed by the stored id so any spelling of it gets updates
	s.hub.ServeWS(w, r, info.ID, info.GameState)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	watched := 0
	if s.hub != nil {
		watched = s.hub.SessionCount()
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "healthy",
		"watched_sessions": watched,
	})
}
