package telemetry_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petasbytes/ghostwriter/internal/metrics"
	"github.com/petasbytes/ghostwriter/internal/telemetry"
)

// readLastJSONL returns the last non-empty JSON object in baseDir/events.jsonl.
func readLastJSONL(t *testing.T, baseDir string) (map[string]any, error) {
	t.Helper()
	f, err := os.Open(filepath.Join(baseDir, "events.jsonl"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var last string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if txt := strings.TrimSpace(s.Text()); txt != "" {
			last = txt
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if last == "" {
		return nil, errors.New("no lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func TestEmitTextFeatures_HappyPath(t *testing.T) {
	base := t.TempDir()
	t.Setenv("GW_ARTIFACTS_DIR", base)
	t.Setenv("GW_OBSERVE_JSON", "1")

	ctx := telemetry.WithCycleID(context.Background(), "cycle-xyz")
	text := "hello  world\nthis is\tgo"
	want := metrics.MeasureText(text, func(r rune) bool { return r != '\t' })

	telemetry.EmitTextFeatures(ctx, "typed", want)

	m, err := readLastJSONL(t, base)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if m["event"] != "text_features" {
		t.Fatalf("expected event=text_features, got %v", m["event"])
	}
	if m["cycle_id"] != "cycle-xyz" {
		t.Fatalf("expected cycle_id=cycle-xyz, got %v", m["cycle_id"])
	}
	if m["source"] != "typed" {
		t.Fatalf("expected source=typed, got %v", m["source"])
	}
	got, ok := m["text"].(map[string]any)
	if !ok {
		t.Fatalf("expected text object, got %#v", m["text"])
	}
	checks := map[string]int{
		"bytes": want.Bytes, "runes": want.Runes, "words": want.Words, "lines": want.Lines,
		"typed": want.Typed, "skipped": want.Skipped,
	}
	if want.Skipped != 1 {
		t.Fatalf("fixture should skip the tab, got %+v", want)
	}
	for k, v := range checks {
		if got[k] != float64(v) {
			t.Errorf("%s: got %v want %d", k, got[k], v)
		}
	}
	raw, _ := json.Marshal(m)
	if strings.Contains(string(raw), "hello") {
		t.Fatal("raw text must not be written to telemetry")
	}
}

func TestEmitTextFeatures_Disabled(t *testing.T) {
	base := t.TempDir()
	t.Setenv("GW_ARTIFACTS_DIR", base)
	t.Setenv("GW_OBSERVE_JSON", "0")

	telemetry.EmitTextFeatures(context.Background(), "model", metrics.MeasureText("hi", nil))

	if _, err := os.Stat(filepath.Join(base, "events.jsonl")); !os.IsNotExist(err) {
		t.Fatalf("expected no events file when disabled, got err=%v", err)
	}
}
