package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Coordinate is a (column, row) cell reference. Both axes are 1-based.
type Coordinate struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// NewCoordinate builds a coordinate. Range checks are left to the Game.
func NewCoordinate(col, row int) Coordinate {
	return Coordinate{Col: col, Row: row}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%s%d", columnLabel(c.Col), c.Row)
}

// ParseCoordinate reads a column letter followed by a row number ("B7", "j10").
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 || s[0] < 'A' || s[0] > 'Z' {
		return Coordinate{}, ruleErrorf(ErrInvalidColumn, "%q is not a coordinate like B7", s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return Coordinate{}, ruleErrorf(ErrInvalidRow, "%q is not a coordinate like B7", s)
	}
	return Coordinate{Col: int(s[0]-'A') + 1, Row: row}, nil
}

// Span is the inclusive rectangle of cells a ship occupies
type Span struct {
	StartCol int `json:"start_col"`
	EndCol   int `json:"end_col"`
	StartRow int `json:"start_row"`
	EndRow   int `json:"end_row"`
}

// Overlaps reports whether two spans share at least one cell.
func (s Span) Overlaps(other Span) bool {
	return s.StartCol <= other.EndCol && s.EndCol >= other.StartCol &&
		s.StartRow <= other.EndRow && s.EndRow >= other.StartRow
}

// Contains reports whether the coordinate lies inside the span
func (s Span) Contains(c Coordinate) bool {
	return c.Col >= s.StartCol && c.Col <= s.EndCol &&
		c.Row >= s.StartRow && c.Row <= s.EndRow
}

// Ship is a placed piece. Its size always matches its type.
type Ship struct {
	size        int
	shipType    ShipType
	origin      Coordinate
	orientation Orientation
}

// NewShip builds a ship; the size is derived from the type
func NewShip(shipType ShipType, origin Coordinate, orientation Orientation) Ship {
	return Ship{
		size:        shipType.Size(),
		shipType:    shipType,
		origin:      origin,
		orientation: orientation,
	}
}

func (s Ship) Size() int                { return s.size }
func (s Ship) Type() ShipType           { return s.shipType }
func (s Ship) Origin() Coordinate       { return s.origin }
func (s Ship) Orientation() Orientation { return s.orientation }

// Span returns the cells covered by the ship, extending from the origin
// along the columns (Landscape) or rows (Portrait).
func (s Ship) Span() Span {
	col, row := s.origin.Col, s.origin.Row
	if s.orientation == Portrait {
		return Span{StartCol: col, EndCol: col, StartRow: row, EndRow: row + s.size - 1}
	}
	return Span{StartCol: col, EndCol: col + s.size - 1, StartRow: row, EndRow: row}
}

// Cells lists every coordinate the ship occupies, origin first
func (s Ship) Cells() []Coordinate {
	span := s.Span()
	cells := make([]Coordinate, 0, s.size)
	for row := span.StartRow; row <= span.EndRow; row++ {
		for col := span.StartCol; col <= span.EndCol; col++ {
			cells = append(cells, Coordinate{Col: col, Row: row})
		}
	}
	return cells
}

func (s Ship) String() string {
	return fmt.Sprintf("%s at %s (%s)", s.shipType.DisplayName(), s.origin, s.orientation)
}

type shipJSON struct {
	Type        ShipType    `json:"type"`
	Size        int         `json:"size"`
	Origin      Coordinate  `json:"origin"`
	Orientation Orientation `json:"orientation"`
	Span        Span        `json:"span"`
}

// MarshalJSON encodes the ship together with its derived size and span
func (s Ship) MarshalJSON() ([]byte, error) {
	return json.Marshal(shipJSON{
		Type:        s.shipType,
		Size:        s.size,
		Origin:      s.origin,
		Orientation: s.orientation,
		Span:        s.Span(),
	})
}

// UnmarshalJSON decodes a ship; size and span in the input are ignored and
// recomputed from the type.
func (s *Ship) UnmarshalJSON(data []byte) error {
	var raw shipJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Type.IsValid() {
		return &RuleError{Kind: ErrUnknownShipType, Msg: fmt.Sprintf("%q", raw.Type)}
	}
	if !raw.Orientation.IsValid() {
		return &RuleError{Kind: ErrInvalidOrientation, Msg: fmt.Sprintf("%q", raw.Orientation)}
	}
	*s = NewShip(raw.Type, raw.Origin, raw.Orientation)
	return nil
}
