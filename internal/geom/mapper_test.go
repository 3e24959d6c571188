package geom_test

import (
	"testing"

	"github.com/petasbytes/ghostwriter/internal/geom"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestMapper_ScreenRoundTrip_WithinOne(t *testing.T) {
	for name, cal := range map[string]geom.Calibration{"pen": geom.PenRM2, "touch": geom.TouchRM2} {
		m := geom.NewMapper(cal)
		for y := 0; y <= cal.ScreenHeight; y += 13 {
			for x := 0; x <= cal.ScreenWidth; x += 11 {
				p := geom.ScreenPoint{X: x, Y: y}
				got := m.ToScreen(m.ToDevice(p))
				if abs(got.X-p.X) > 1 || abs(got.Y-p.Y) > 1 {
					t.Fatalf("%s: round trip %+v -> %+v", name, p, got)
				}
			}
		}
	}
}

func TestMapper_PenOrigin(t *testing.T) {
	m := geom.NewMapper(geom.PenRM2)
	// Top-left of the screen sits at the far end of the digitizer's X axis.
	got := m.ToDevice(geom.ScreenPoint{X: 0, Y: 0})
	if got.X != geom.PenRM2.DeviceMaxX || got.Y != 0 {
		t.Fatalf("origin: got %+v", got)
	}
	got = m.ToDevice(geom.ScreenPoint{X: geom.ScreenWidth, Y: geom.ScreenHeight})
	if got.X != 0 || got.Y != geom.PenRM2.DeviceMaxY {
		t.Fatalf("far corner: got %+v", got)
	}
}

func TestMapper_Monotonic(t *testing.T) {
	m := geom.NewMapper(geom.PenRM2)
	prev := m.ToDevice(geom.ScreenPoint{X: 0, Y: 100})
	for x := 1; x < geom.ScreenWidth; x++ {
		cur := m.ToDevice(geom.ScreenPoint{X: x, Y: 100})
		if cur.Y < prev.Y {
			t.Fatalf("device Y not monotonic at x=%d: %d < %d", x, cur.Y, prev.Y)
		}
		if cur.X != prev.X {
			t.Fatalf("device X changed along a screen row at x=%d", x)
		}
		prev = cur
	}
}

func TestMapper_TouchCornerIsTriggerZone(t *testing.T) {
	m := geom.NewMapper(geom.TouchRM2)
	got := m.ToDevice(geom.ScreenPoint{X: geom.ScreenWidth - 10, Y: 10})
	if got.X <= 1360 || got.Y <= 1810 {
		t.Fatalf("top-right screen corner should land in the native trigger zone, got %+v", got)
	}
}

func TestCalibration_Valid(t *testing.T) {
	if !geom.PenRM2.Valid() || !geom.TouchRM2.Valid() {
		t.Fatal("presets should be valid")
	}
	if (geom.Calibration{}).Valid() {
		t.Fatal("zero calibration should be invalid")
	}
}
