// Command analyze prints quick, human-readable heuristics about board
// configurations in the project's configs directory. For each board it
// summarizes dimensions and overhang rules, counts the legal origins of every
// ship type in both orientations, and flags boards where the fleet is packed
// tightly.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wricardo/fleet-command/game/engine"
)

// tightDensity is the share of cells a fleet may cover before a board is flagged
const tightDensity = 0.35

// ShipAnalysis counts where one ship type can start on an empty board
type ShipAnalysis struct {
	Type      engine.ShipType
	Landscape int
	Portrait  int
}

// BoardAnalysis is the summary printed for one configuration
type BoardAnalysis struct {
	Name       string
	Columns    int
	Rows       int
	Overhang   bool
	FleetCells int
	Density    float64
	Ships      []ShipAnalysis
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No configurations found in %s\n", dir)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeConfig(os.Stdout, file)
	}
}

func analyzeConfig(w io.Writer, path string) {
	config, err := engine.LoadGameConfig(path)
	if err != nil {
		fmt.Fprintf(w, "Error loading config: %v\n", err)
		return
	}

	printAnalysis(w, analyzeBoard(config))
}

// analyzeBoard tries every origin and orientation of every ship type on an
// empty board, using the same placement rules a match uses.
func analyzeBoard(config *engine.GameConfig) BoardAnalysis {
	analysis := BoardAnalysis{
		Name:     config.Name,
		Columns:  config.Columns,
		Rows:     config.Rows,
		Overhang: config.AllowOverhang,
	}

	for _, shipType := range engine.AllShipTypes() {
		analysis.FleetCells += shipType.Size()
		ship := ShipAnalysis{Type: shipType}
		for row := 1; row <= config.Rows; row++ {
			for col := 1; col <= config.Columns; col++ {
				origin := engine.NewCoordinate(col, row)
				if fitsEmptyBoard(config, shipType, origin, engine.Landscape) {
					ship.Landscape++
				}
				if fitsEmptyBoard(config, shipType, origin, engine.Portrait) {
					ship.Portrait++
				}
			}
		}
		analysis.Ships = append(analysis.Ships, ship)
	}

	analysis.Density = float64(analysis.FleetCells) / float64(config.Columns*config.Rows)
	return analysis
}

func fitsEmptyBoard(config *engine.GameConfig, shipType engine.ShipType, origin engine.Coordinate, o engine.Orientation) bool {
	p1, p2 := engine.NewPlayer("analyze-1"), engine.NewPlayer("analyze-2")
	game, err := engine.NewGame(config, p1, p2)
	if err != nil {
		return false
	}
	return game.CreateShip(p1.ID, shipType, origin, o) == nil
}

func printAnalysis(w io.Writer, a BoardAnalysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", a.Columns, a.Rows)
	if a.Overhang {
		fmt.Fprintf(w, "Overhang: allowed (only the origin is bounds-checked)\n")
	} else {
		fmt.Fprintf(w, "Overhang: not allowed\n")
	}

	fmt.Fprintf(w, "Legal origins on an empty board:\n")
	for _, s := range a.Ships {
		fmt.Fprintf(w, "   %-16s size %d  landscape %3d  portrait %3d\n", s.Type.DisplayName(), s.Type.Size(), s.Landscape, s.Portrait)
	}

	fmt.Fprintf(w, "Fleet covers %d of %d cells (%.0f%%)\n", a.FleetCells, a.Columns*a.Rows, a.Density*100)
	if a.Density > tightDensity {
		fmt.Fprintf(w, "⚠️  WARNING: fleet is packed tightly, placements will collide often\n")
	} else {
		fmt.Fprintf(w, "✅ Plenty of open water for every fleet\n")
	}
}
