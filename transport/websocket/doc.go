// Package websocket pushes live Fleet Command updates to watchers.
//
// A Hub keeps the set of connected clients per session. A new watcher first
// receives a snapshot message with the current state. Every accepted
// placement or start is followed by a state_update message carrying the full
// engine.GameState, and each setup event (ship_placed, fleet_complete,
// ready_to_start, game_started) is sent as a setup_event message.
//
// Message Protocol:
//
// Outgoing messages are JSON objects:
//
//	{"session_id": "ab12", "event": "snapshot", "game_state": {...}}
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "setup_event", "data": {...}}
//
// Watchers are read-only. Anything a client sends is discarded; reads only
// keep the pong deadline alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"), currentState)
//	})
//
// A watcher whose queue fills up is disconnected rather than allowed to
// stall a broadcast.
package websocket
