package stroke

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/petasbytes/ghostwriter/internal/geom"
	"github.com/petasbytes/ghostwriter/internal/raster"
)

type fakePen struct {
	ops    []string
	failOn string
	failAt int
	calls  int
	lastOp string
}

var errPen = errors.New("pen write failed")

func (f *fakePen) record(op string) error {
	f.calls++
	f.lastOp = op
	if f.failOn != "" && op == f.failOn && f.calls >= f.failAt {
		return errPen
	}
	f.ops = append(f.ops, op)
	return nil
}

func (f *fakePen) Down() error                   { return f.record("down") }
func (f *fakePen) Up() error                     { return f.record("up") }
func (f *fakePen) Goto(p geom.ScreenPoint) error { return f.record(fmt.Sprintf("goto(%d,%d)", p.X, p.Y)) }

func newTestPlanner(pen *fakePen) (*Planner, *[]time.Duration) {
	p := NewPlanner(pen)
	var slept []time.Duration
	p.Sleep = func(d time.Duration) { slept = append(slept, d) }
	return p, &slept
}

func TestLineSamplesAndLifts(t *testing.T) {
	pen := &fakePen{}
	p, _ := newTestPlanner(pen)

	if err := p.Line(geom.ScreenPoint{X: 0, Y: 0}, geom.ScreenPoint{X: 12, Y: 0}); err != nil {
		t.Fatalf("Line: %v", err)
	}
	want := []string{"up", "goto(0,0)", "down", "goto(4,0)", "goto(8,0)", "goto(12,0)", "up"}
	if fmt.Sprint(pen.ops) != fmt.Sprint(want) {
		t.Fatalf("ops = %v, want %v", pen.ops, want)
	}
}

func TestLineZeroLength(t *testing.T) {
	pen := &fakePen{}
	p, _ := newTestPlanner(pen)
	if err := p.Line(geom.ScreenPoint{X: 3, Y: 3}, geom.ScreenPoint{X: 3, Y: 3}); err != nil {
		t.Fatalf("Line: %v", err)
	}
	want := []string{"up", "goto(3,3)", "down", "up"}
	if fmt.Sprint(pen.ops) != fmt.Sprint(want) {
		t.Fatalf("ops = %v, want %v", pen.ops, want)
	}
}

func TestBitmapSingleRun(t *testing.T) {
	bm := raster.NewBitmap(40, 12)
	for x := 20; x <= 29; x++ {
		bm.Set(x, 10, true)
	}
	pen := &fakePen{}
	p, slept := newTestPlanner(pen)

	if err := p.Bitmap(bm); err != nil {
		t.Fatalf("Bitmap: %v", err)
	}

	// Leading lift plus one lift per row before row 10.
	for i := 0; i <= 10; i++ {
		if pen.ops[i] != "up" {
			t.Fatalf("op %d = %q, want up", i, pen.ops[i])
		}
	}
	row := pen.ops[11:]
	want := []string{"goto(20,10)", "down", "goto(21,10)"}
	for i, w := range want {
		if row[i] != w {
			t.Fatalf("row op %d = %q, want %q (row=%v)", i, row[i], w, row)
		}
	}
	downs, reached := 0, false
	for i, op := range row {
		if op == "down" {
			downs++
		}
		if op == "goto(29,10)" {
			reached = true
		}
		if op == "up" {
			for _, rest := range row[i:] {
				if rest == "down" {
					t.Fatalf("pen lowered again after lift: %v", row)
				}
			}
			break
		}
	}
	if downs != 1 || !reached {
		t.Fatalf("downs = %d, reached col 29 = %v; row=%v", downs, reached, row)
	}
	if pen.ops[len(pen.ops)-1] != "up" {
		t.Fatalf("last op = %q, want up", pen.ops[len(pen.ops)-1])
	}
	if p.Strokes != 1 {
		t.Fatalf("Strokes = %d, want 1", p.Strokes)
	}
	var rows int
	for _, d := range *slept {
		if d == rowDelay {
			rows++
		}
	}
	if rows != 12 {
		t.Fatalf("row delays = %d, want 12", rows)
	}
}

func TestBitmapEndsUp(t *testing.T) {
	cases := map[string]raster.Bitmap{
		"empty":     raster.NewBitmap(5, 3),
		"full":      fullBitmap(5, 3),
		"zero-size": raster.NewBitmap(0, 0),
	}
	for name, bm := range cases {
		t.Run(name, func(t *testing.T) {
			pen := &fakePen{}
			p, _ := newTestPlanner(pen)
			if err := p.Bitmap(bm); err != nil {
				t.Fatalf("Bitmap: %v", err)
			}
			if len(pen.ops) == 0 || pen.ops[len(pen.ops)-1] != "up" {
				t.Fatalf("ops = %v, want trailing up", pen.ops)
			}
		})
	}
}

func fullBitmap(w, h int) raster.Bitmap {
	bm := raster.NewBitmap(w, h)
	for i := range bm.Pix {
		bm.Pix[i] = true
	}
	return bm
}

func TestBitmapErrorLiftsPen(t *testing.T) {
	pen := &fakePen{failOn: "goto(2,1)", failAt: 1}
	p, _ := newTestPlanner(pen)

	err := p.Bitmap(fullBitmap(4, 2))
	if !errors.Is(err, errPen) {
		t.Fatalf("err = %v, want errPen", err)
	}
	if pen.lastOp != "up" {
		t.Fatalf("last op = %q, want best-effort up", pen.lastOp)
	}
}
