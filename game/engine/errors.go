package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidColumn      = errors.New("invalid column")
	ErrInvalidRow         = errors.New("invalid row")
	ErrDuplicateShipType  = errors.New("duplicate ship type")
	ErrOverlappingShip    = errors.New("overlapping ship")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrIncompleteFleet    = errors.New("incomplete fleet")
	ErrGameStarted        = errors.New("game already started")
	ErrAlreadyStarted     = errors.New("start already called")
	ErrUnknownShipType    = errors.New("unknown ship type")
	ErrInvalidOrientation = errors.New("invalid orientation")
)

// RuleError wraps a rule violation kind with a caller-facing detail message.
// Use errors.Is against the Err* values to classify it.
type RuleError struct {
	Kind error
	Msg  string
}

func (e *RuleError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *RuleError) Unwrap() error { return e.Kind }

func ruleErrorf(kind error, format string, args ...any) error {
	return &RuleError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ErrorCode returns a stable machine-friendly code for a rule violation,
// or "" when err is not one.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidColumn):
		return "invalid_column"
	case errors.Is(err, ErrInvalidRow):
		return "invalid_row"
	case errors.Is(err, ErrDuplicateShipType):
		return "duplicate_ship_type"
	case errors.Is(err, ErrOverlappingShip):
		return "overlapping_ship"
	case errors.Is(err, ErrPlayerNotFound):
		return "player_not_found"
	case errors.Is(err, ErrIncompleteFleet):
		return "incomplete_fleet"
	case errors.Is(err, ErrGameStarted):
		return "game_started"
	case errors.Is(err, ErrAlreadyStarted):
		return "already_started"
	case errors.Is(err, ErrUnknownShipType):
		return "unknown_ship_type"
	case errors.Is(err, ErrInvalidOrientation):
		return "invalid_orientation"
	default:
		return ""
	}
}
