package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("wwctl %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return strings.TrimSpace(out.String())
}

func TestWwctlEndToEnd(t *testing.T) {
	t.Setenv("WW_DATABASE__DRIVER", "")
	t.Setenv("WW_DATABASE__URL", "")
	t.Setenv("WW_LOG__LEVEL", "error")

	dbPath := filepath.Join(t.TempDir(), "ww.db")
	common := []string{"--driver", "sqlite", "--database-url", dbPath}
	with := func(args ...string) []string { return append(append([]string{}, common...), args...) }

	run(t, with("seed", filepath.Join("..", "..", "data", "seeds", "fixture.yaml"))...)

	if got := run(t, with("schedule-trip", "--route", "1", "--at", "2024-06-03 08:00")...); got != "true" {
		t.Fatalf("schedule-trip = %q, want true", got)
	}
	if got := run(t, with("schedule-trip", "--route", "1", "--at", "2024-06-03 13:00")...); got != "false" {
		t.Fatalf("second schedule-trip = %q, want false", got)
	}
	if got := run(t, with("workmate-sphere", "--employee", "1")...); got != "2 3" {
		t.Fatalf("workmate-sphere = %q, want \"2 3\"", got)
	}
	if got := run(t, with("reroute-waste", "--facility", "1", "--date", "2024-06-03")...); got != "1" {
		t.Fatalf("reroute-waste = %q, want 1", got)
	}

	feed := filepath.Join(t.TempDir(), "feed.txt")
	if err := os.WriteFile(feed, []byte("Gil Grant\ntipper\n"), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	if got := run(t, with("update-technicians", feed)...); got != "1" {
		t.Fatalf("update-technicians = %q, want 1", got)
	}
}

func TestParseAt(t *testing.T) {
	want := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	for _, s := range []string{"2024-06-03 08:00", "2024-06-03T08:00", "2024-06-03 08:00:00", "2024-06-03T08:00:00Z"} {
		got, err := parseAt(s)
		if err != nil {
			t.Fatalf("parseAt(%q): %v", s, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parseAt(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := parseAt("tomorrow"); err == nil {
		t.Fatalf("expected error")
	}
}
