package main

import (
	"math/rand"

	"github.com/wricardo/fleet-command/game/engine"
)

// Candidate is one proposed placement
type Candidate struct {
	Origin      engine.Coordinate
	Orientation engine.Orientation
}

// RandomStrategy proposes placements in random order without repeating a
// candidate until Reset is called. The server is the only judge of legality.
type RandomStrategy struct {
	rng     *rand.Rand
	columns int
	rows    int
	tried   map[Candidate]bool
}

// NewRandomStrategy creates a strategy for a board of the given size
func NewRandomStrategy(columns, rows int, seed int64) *RandomStrategy {
	return &RandomStrategy{
		rng:     rand.New(rand.NewSource(seed)),
		columns: columns,
		rows:    rows,
		tried:   make(map[Candidate]bool),
	}
}

func (s *RandomStrategy) total() int {
	return s.columns * s.rows * 2
}

// Next returns an untried candidate, or false once every cell and
// orientation has been proposed.
func (s *RandomStrategy) Next() (Candidate, bool) {
	if len(s.tried) >= s.total() {
		return Candidate{}, false
	}

	// Random probing while the board is mostly untried, then a linear sweep
	if len(s.tried) < s.total()/2 {
		for {
			c := s.random()
			if !s.tried[c] {
				s.tried[c] = true
				return c, true
			}
		}
	}

	for row := 1; row <= s.rows; row++ {
		for col := 1; col <= s.columns; col++ {
			for _, o := range []engine.Orientation{engine.Landscape, engine.Portrait} {
				c := Candidate{Origin: engine.NewCoordinate(col, row), Orientation: o}
				if !s.tried[c] {
					s.tried[c] = true
					return c, true
				}
			}
		}
	}
	return Candidate{}, false
}

func (s *RandomStrategy) random() Candidate {
	o := engine.Landscape
	if s.rng.Intn(2) == 1 {
		o = engine.Portrait
	}
	return Candidate{
		Origin:      engine.NewCoordinate(s.rng.Intn(s.columns)+1, s.rng.Intn(s.rows)+1),
		Orientation: o,
	}
}

// Reset forgets every tried candidate, for the next ship
func (s *RandomStrategy) Reset() {
	s.tried = make(map[Candidate]bool)
}
