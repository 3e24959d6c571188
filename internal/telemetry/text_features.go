package telemetry

import (
	"context"

	"github.com/petasbytes/ghostwriter/internal/metrics"
)

// EmitTextFeatures records the shape of a piece of text, never the text
// itself. source is "model" for free text in a response and "typed" for
// text sent to the keyboard.
func EmitTextFeatures(ctx context.Context, source string, st metrics.TextStats) {
	if !ObserveEnabled() {
		return
	}
	cycleID, _ := CycleIDFromContext(ctx)
	Emit("text_features", map[string]any{
		"cycle_id":         cycleID,
		"source":           source,
		"features_version": "2",
		"text": map[string]any{
			"bytes":   st.Bytes,
			"runes":   st.Runes,
			"words":   st.Words,
			"lines":   st.Lines,
			"typed":   st.Typed,
			"skipped": st.Skipped,
		},
	})
}
