package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo).With("run", 7).WithGroup("hop")
	log.Debug("hidden")
	log.Info("fetched", "status", 301)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record written at info level: %q", out)
	}
	for _, want := range []string{"[longurl]", "| INFO  |", "fetched", " run=7", " hop.status=301"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected one line, got %q", out)
	}
}

func TestLevel(t *testing.T) {
	if Level(true) != slog.LevelDebug || Level(false) != slog.LevelInfo {
		t.Fatal("unexpected level mapping")
	}
}
