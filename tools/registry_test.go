package tools_test

import (
	"testing"

	"github.com/petasbytes/ghostwriter/tools"
)

func TestRegistry_ToolCount(t *testing.T) {
	defs := tools.Registry(&fakeSurface{})
	wantCount := 2 // draw_text, draw_svg
	if len(defs) != wantCount {
		t.Fatalf("unexpected number of tools: got %d want %d", len(defs), wantCount)
	}
}

func TestRegistry_ToolNames(t *testing.T) {
	defs := tools.Registry(&fakeSurface{})
	want := map[string]struct{}{
		"draw_text": {},
		"draw_svg":  {},
	}

	// Unexpected names detected
	for _, d := range defs {
		if _, ok := want[d.Name]; !ok {
			t.Fatalf("unexpected tool in registry: %q", d.Name)
		}
	}

	// Missing expected names
	got := map[string]struct{}{}
	for _, d := range defs {
		got[d.Name] = struct{}{}
	}
	for name := range want {
		if _, ok := got[name]; !ok {
			t.Errorf("missing expected tool: %q", name)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
}
