package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-ticks", "100", "-cycles", "2", "-quiet"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.ticks != 100 || o.cycles != 2 || !o.quiet {
		t.Errorf("Unexpected options %+v", o)
	}
	if o.envPath != ".env" {
		t.Errorf("Expected default env path .env, got %q", o.envPath)
	}

	if _, err := parseFlags([]string{"-cycles", "-1"}); err == nil {
		t.Error("Expected error for negative cycles")
	}
}

func TestWriteSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := writeSchema(&buf); err != nil {
		t.Fatalf("writeSchema: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
}

func TestRunPrintsSummary(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "final.json")
	o := options{
		envPath: filepath.Join(t.TempDir(), "missing.env"),
		cycles:  3,
		quiet:   true,
		dump:    dump,
	}

	var out bytes.Buffer
	if err := run(context.Background(), o, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	s := out.String()
	for _, want := range []string{"casts:  3", "rod:    Idle", "key:    Delivered", "scene written to"} {
		if !strings.Contains(s, want) {
			t.Errorf("Summary missing %q:\n%s", want, s)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := options{envPath: filepath.Join(t.TempDir(), "missing.env"), cycles: 1, quiet: true}
	if err := run(ctx, o, &bytes.Buffer{}); err == nil {
		t.Error("Expected a cancelled run to return an error")
	}
}
