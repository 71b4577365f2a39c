package main

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args    []string
		wantPop int
		wantFPS int
	}{
		{nil, 36, 15},
		{[]string{"glider"}, 5, 15},
		{[]string{"pulsar", "30"}, 48, 30},
		{[]string{"rpent", "fast"}, 5, 15},
		{[]string{"lwss", "-4"}, 9, 15},
		{[]string{"lwss", "0"}, 9, 15},
	}
	for _, tt := range tests {
		grid, fps, err := parseArgs(tt.args)
		if err != nil {
			t.Fatalf("parseArgs(%q) error: %v", tt.args, err)
		}
		if grid.Population() != tt.wantPop || fps != tt.wantFPS {
			t.Fatalf("parseArgs(%q) = pop %d fps %d, want pop %d fps %d",
				tt.args, grid.Population(), fps, tt.wantPop, tt.wantFPS)
		}
	}
}

func TestUnknownPattern(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"spaceship"}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	want := "Unknown pattern: spaceship\nAvailable: glider, gun, rpent, lwss, pulsar\n"
	if stderr.String() != want {
		t.Fatalf("stderr = %q, want %q", stderr.String(), want)
	}
	if stdout.Len() != 0 {
		t.Fatalf("stdout written on error: %q", stdout.String())
	}
}

func TestParseArgsUnknownPatternError(t *testing.T) {
	_, _, err := parseArgs([]string{"spaceship"})
	var unknown *unknownPatternError
	if !errors.As(err, &unknown) || unknown.name != "spaceship" {
		t.Fatalf("parseArgs() error = %v, want unknownPatternError for spaceship", err)
	}
	if got := err.Error(); got != `unknown pattern "spaceship"` {
		t.Fatalf("error text = %q", got)
	}
}
