// Command validate checks board configuration JSON files. For every file it
// checks:
//   - JSON structure and required fields
//   - Grid dimensions against the supported range
//   - Message templates carry the expected %s placeholders
//   - A complete fleet can actually be positioned on the grid
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/fleet-command/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Messages contains informational lines; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Messages []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:     filepath.Base(filePath),
		Valid:    true,
		Messages: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	if !canPositionFleet(&config) {
		result.fail("a complete fleet cannot be positioned on a %dx%d grid", config.Columns, config.Rows)
		return result
	}

	fleetCells := 0
	for _, t := range engine.AllShipTypes() {
		fleetCells += t.Size()
	}
	result.Messages = append(result.Messages,
		fmt.Sprintf("✓ Grid %dx%d, fleet covers %d of %d cells", config.Columns, config.Rows, fleetCells, config.Columns*config.Rows))
	if config.AllowOverhang {
		result.Messages = append(result.Messages, "✓ Ships may overhang the grid edge")
	}
	if config.Messages.Welcome == "" {
		result.Messages = append(result.Messages, "✓ No welcome message, the default is used")
	}

	return result
}

// canPositionFleet greedily lays out a full fleet, scanning cells row by row
// and trying both orientations at each one.
func canPositionFleet(config *engine.GameConfig) bool {
	p1, p2 := engine.NewPlayer("validate-1"), engine.NewPlayer("validate-2")
	game, err := engine.NewGame(config, p1, p2)
	if err != nil {
		return false
	}

	orientations := []engine.Orientation{engine.Landscape, engine.Portrait}
	for _, shipType := range engine.AllShipTypes() {
		placed := false
		for row := 1; row <= config.Rows && !placed; row++ {
			for col := 1; col <= config.Columns && !placed; col++ {
				for _, o := range orientations {
					if game.CreateShip(p1.ID, shipType, engine.NewCoordinate(col, row), o) == nil {
						placed = true
						break
					}
				}
			}
		}
		if !placed {
			return false
		}
	}
	return true
}

// configFiles returns the explicit file arguments, or every *.json in dir.
func configFiles(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", dir)
	}
	return files, nil
}

// report prints results and returns whether every file was valid.
func report(w io.Writer, results []ValidationResult, quiet bool) bool {
	allValid := true
	for _, result := range results {
		if !result.Valid {
			allValid = false
		}
		if quiet && result.Valid {
			continue
		}

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Messages {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			for _, err := range result.Messages {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check Fleet Command board configurations",
		ArgsUsage: "[file.json ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Value:   "configs",
				Usage:   "directory scanned for *.json when no files are given",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only print invalid configurations",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := configFiles(cmd.String("dir"), cmd.Args().Slice())
			if err != nil {
				return err
			}

			results := make([]ValidationResult, 0, len(files))
			for _, file := range files {
				results = append(results, validateConfig(file))
			}

			if !report(cmd.Writer, results, cmd.Bool("quiet")) {
				return fmt.Errorf("%d of %d configurations are invalid", countInvalid(results), len(results))
			}
			return nil
		},
	}
}

func countInvalid(results []ValidationResult) int {
	n := 0
	for _, r := range results {
		if !r.Valid {
			n++
		}
	}
	return n
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
