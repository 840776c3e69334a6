package engine

import "github.com/google/uuid"

// PlayerID is an opaque, stable player identifier
type PlayerID string

// Player is a participant's identity: an id plus a display name
type Player struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

// NewPlayer creates a player with a freshly generated id
func NewPlayer(name string) Player {
	return Player{ID: PlayerID(uuid.NewString()), Name: name}
}

func (p Player) String() string {
	return p.Name
}
