package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/petasbytes/ghostwriter/internal/telemetry"
)

func TestCycleID_RoundTrip(t *testing.T) {
	ctx := telemetry.WithCycleID(context.Background(), "cycle-123")
	got, ok := telemetry.CycleIDFromContext(ctx)
	if !ok || got != "cycle-123" {
		t.Fatalf("want cycle-123,true; got %q,%v", got, ok)
	}
}

func TestCycleID_NilParent(t *testing.T) {
	ctx := telemetry.WithCycleID(context.Background(), "c1")
	got, ok := telemetry.CycleIDFromContext(ctx)
	if !ok || got != "c1" {
		t.Fatalf("want c1,true; got %q,%v", got, ok)
	}
}

func TestCycleID_EmptyIDRejectedOnRead(t *testing.T) {
	ctx := telemetry.WithCycleID(context.Background(), "")
	got, ok := telemetry.CycleIDFromContext(ctx)
	if ok || got != "" {
		t.Fatalf("want empty,false; got %q,%v", got, ok)
	}
}

func TestCycleID_ParentCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	child := telemetry.WithCycleID(parent, "c1")

	// Cancel the parent and ensure child's Done is closed promptly.
	cancel()

	select {
	case <-child.Done():
		// ok
	case <-time.After(100 * time.Millisecond):
		t.Fatal("child context did not observe parent cancellation")
	}
}

func TestCycleID_LastWriteWins(t *testing.T) {
	ctx1 := telemetry.WithCycleID(context.Background(), "c1")
	ctx2 := telemetry.WithCycleID(ctx1, "c2")

	got, ok := telemetry.CycleIDFromContext(ctx2)
	if !ok || got != "c2" {
		t.Fatalf("want c2,true; got %q,%v", got, ok)
	}
}

func TestCycleID_UnrelatedValuesUnaffected(t *testing.T) {
	type otherKey struct{}
	parent := context.WithValue(context.Background(), otherKey{}, 123)

	child := telemetry.WithCycleID(parent, "c1")

	// Unrelated value should still be accessible from child.
	v := child.Value(otherKey{})
	if v != 123 {
		t.Fatalf("want unrelated value 123; got %#v", v)
	}

	// And cycle ID remains intact.
	got, ok := telemetry.CycleIDFromContext(child)
	if !ok || got != "c1" {
		t.Fatalf("want c1,true; got %q,%v", got, ok)
	}
}

func TestCycleID_MissingValue(t *testing.T) {
	got, ok := telemetry.CycleIDFromContext(context.Background())
	if ok || got != "" {
		t.Fatalf("want empty,false; got %q,%v", got, ok)
	}
}

func TestCycleID_NilCtxOnRead(t *testing.T) {
	got, ok := telemetry.CycleIDFromContext(context.Background())
	if ok || got != "" {
		t.Fatalf("want empty,false; got %q,%v", got, ok)
	}
}

func TestNewCycleID_Unique(t *testing.T) {
	a := telemetry.NewCycleID()
	time.Sleep(time.Microsecond)
	b := telemetry.NewCycleID()
	if a == b || a == "" {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a, b)
	}
}
