package engine

import (
	"fmt"
	"strings"
)

// ShipType identifies one of the five pieces of a fleet
type ShipType string

const (
	AircraftCarrier ShipType = "aircraft_carrier"
	Battleship      ShipType = "battleship"
	Destroyer       ShipType = "destroyer"
	Submarine       ShipType = "submarine"
	PatrolBoat      ShipType = "patrol_boat"

	// Validation constants
	MinGridSize         = 5
	MaxGridSize         = 26
	DefaultGridSize     = 10
	WebSocketBufferSize = 256
)

// fleetOrder is the canonical order of ship types, largest first
var fleetOrder = []ShipType{AircraftCarrier, Battleship, Destroyer, Submarine, PatrolBoat}

// AllShipTypes returns every ship type a complete fleet must contain
func AllShipTypes() []ShipType {
	types := make([]ShipType, len(fleetOrder))
	copy(types, fleetOrder)
	return types
}

// Size returns the number of cells the ship type occupies, or 0 for an unknown type
func (t ShipType) Size() int {
	switch t {
	case AircraftCarrier:
		return 5
	case Battleship:
		return 4
	case Destroyer, Submarine:
		return 3
	case PatrolBoat:
		return 2
	default:
		return 0
	}
}

// DisplayName returns the human-readable name of the ship type
func (t ShipType) DisplayName() string {
	switch t {
	case AircraftCarrier:
		return "Aircraft Carrier"
	case Battleship:
		return "Battleship"
	case Destroyer:
		return "Destroyer"
	case Submarine:
		return "Submarine"
	case PatrolBoat:
		return "Patrol Boat"
	default:
		return string(t)
	}
}

// Symbol returns the single letter used when rendering a board
func (t ShipType) Symbol() string {
	switch t {
	case AircraftCarrier:
		return "A"
	case Battleship:
		return "B"
	case Destroyer:
		return "D"
	case Submarine:
		return "S"
	case PatrolBoat:
		return "P"
	default:
		return "?"
	}
}

// IsValid reports whether t is one of the known ship types
func (t ShipType) IsValid() bool {
	return t.Size() > 0
}

func (t ShipType) String() string {
	return t.DisplayName()
}

// ParseShipType accepts a ship type identifier ("patrol_boat") or display name
// ("Patrol Boat"), ignoring case.
func ParseShipType(s string) (ShipType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	for _, t := range fleetOrder {
		if string(t) == normalized {
			return t, nil
		}
	}
	return "", &RuleError{Kind: ErrUnknownShipType, Msg: fmt.Sprintf("%q", s)}
}

// Orientation is the direction a ship extends from its origin
type Orientation string

const (
	// Landscape ships extend along the column axis
	Landscape Orientation = "landscape"
	// Portrait ships extend along the row axis
	Portrait Orientation = "portrait"
)

// IsValid reports whether o is a known orientation
func (o Orientation) IsValid() bool {
	return o == Landscape || o == Portrait
}

// ParseOrientation accepts "landscape"/"portrait" and the aliases
// "horizontal"/"vertical" (and their first letters).
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "landscape", "horizontal", "h", "l":
		return Landscape, nil
	case "portrait", "vertical", "v", "p":
		return Portrait, nil
	default:
		return "", &RuleError{Kind: ErrInvalidOrientation, Msg: fmt.Sprintf("%q", s)}
	}
}
