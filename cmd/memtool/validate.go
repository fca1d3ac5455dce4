package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/memory-match-game/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Info holds notes about a file that parsed; Errors the problems found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "validate every *.json config in a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Value: "configs",
				Usage: "config directory",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ok, err := validateDir(cmd.Root().Writer, cmd.String("dir"))
			if err != nil {
				return err
			}
			if !ok {
				return cli.Exit("some configurations have errors", 1)
			}
			return nil
		},
	}
}

// validateConfig loads and validates a single configuration file and adds
// playability notes for the two game modes
func validateConfig(path string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(path),
		Valid: true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	config, err := engine.ParseGameConfig(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	pairs := len(config.Icons)
	result.Info = append(result.Info,
		fmt.Sprintf("✓ %q: %d pairs, %d cards", config.Name, pairs, config.BoardSize()),
		fmt.Sprintf("✓ Default mode: %s", config.DefaultMode),
	)

	// Every move resolves at most one pair
	if config.MoveLimit < pairs {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("move limit %d is below the %d moves needed to match every pair", config.MoveLimit, pairs))
	} else if config.MoveLimit < 2*pairs {
		result.Info = append(result.Info,
			fmt.Sprintf("⚠ Move limit %d: perfect memory may need up to %d moves", config.MoveLimit, 2*pairs))
	} else {
		result.Info = append(result.Info,
			fmt.Sprintf("✓ Move limit %d: winnable with perfect memory (at most %d moves)", config.MoveLimit, 2*pairs))
	}

	perPair := float64(config.TimeLimitSeconds) / float64(pairs)
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Time limit %s: %.1fs per pair, reveal delay %dms", engine.FormatClock(config.TimeLimitSeconds), perPair, config.RevealDelayMs))

	return result
}

// validateDir prints a report for every config in dir and reports whether all are valid
func validateDir(w io.Writer, dir string) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no config files in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, e := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+e)
			}
		}
		for _, info := range result.Info {
			fmt.Fprintln(w, "  "+info)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}
