// Command life evolves a pattern on the infinite plane and draws it in the
// terminal until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"lifeboard/internal/loop"
	"lifeboard/pkg/pattern"
	"lifeboard/pkg/sims/life"
)

const defaultPattern = "gun"

type unknownPatternError struct {
	name string
}

func (e *unknownPatternError) Error() string {
	return "unknown pattern " + strconv.Quote(e.name)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	grid, fps, err := parseArgs(args)
	var unknown *unknownPatternError
	if errors.As(err, &unknown) {
		fmt.Fprintf(stderr, "Unknown pattern: %s\n", unknown.name)
		fmt.Fprintf(stderr, "Available: %s\n", strings.Join(pattern.Names(), ", "))
		return 1
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := loop.NewTerminal(grid, stdout, fps).Run(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// parseArgs resolves [pattern] [fps]. A bad fps falls back to the default.
func parseArgs(args []string) (*life.Sparse, int, error) {
	name := defaultPattern
	if len(args) > 0 {
		name = args[0]
	}
	entry, ok := pattern.Lookup(name)
	if !ok {
		return nil, 0, &unknownPatternError{name: name}
	}
	fps := loop.DefaultFPS
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
			fps = n
		}
	}
	grid := life.NewSparse()
	grid.Stamp(entry.Pattern, entry.Row, entry.Col)
	return grid, fps, nil
}
