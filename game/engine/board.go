package engine

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"
)

const waterSymbol = "~"

// columnLabel maps a 1-based column to its letter (1 -> A)
func columnLabel(col int) string {
	if col < 1 || col > MaxGridSize {
		return strconv.Itoa(col)
	}
	return string(rune('A' + col - 1))
}

// RenderFleet draws a fleet on a columns x rows grid. Each ship cell shows
// the ship's symbol, open water shows "~". Cells that fall outside the grid
// (overhanging ships) are not drawn.
func RenderFleet(columns, rows int, ships []Ship) string {
	if columns <= 0 || rows <= 0 {
		return "BOARD HAS SIZE ZERO -- NOT PRINTING\n"
	}

	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, columns)
		for c := range grid[r] {
			grid[r][c] = waterSymbol
		}
	}
	for _, ship := range ships {
		for _, cell := range ship.Cells() {
			if cell.Row < 1 || cell.Row > rows || cell.Col < 1 || cell.Col > columns {
				continue
			}
			grid[cell.Row-1][cell.Col-1] = ship.Type().Symbol()
		}
	}

	var buffer bytes.Buffer
	w := tabwriter.NewWriter(&buffer, 3, 0, 1, ' ', 0)

	fmt.Fprint(w, "\t")
	for col := 1; col <= columns; col++ {
		fmt.Fprint(w, columnLabel(col)+"\t")
	}
	fmt.Fprint(w, "\n")

	for row := 1; row <= rows; row++ {
		fmt.Fprint(w, strconv.Itoa(row)+"\t")
		for col := 1; col <= columns; col++ {
			fmt.Fprint(w, grid[row-1][col-1]+"\t")
		}
		fmt.Fprint(w, "\n")
	}
	w.Flush()
	return buffer.String()
}

// RenderPlayerBoard draws one player's fleet on this game's grid
func (g *Game) RenderPlayerBoard(player PlayerID) (string, error) {
	ships, err := g.Ships(player)
	if err != nil {
		return "", err
	}
	return RenderFleet(g.config.Columns, g.config.Rows, ships), nil
}
