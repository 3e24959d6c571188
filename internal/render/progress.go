package render

import (
	"github.com/petasbytes/ghostwriter/internal/geom"
)

// Stage is a point in a trigger cycle worth showing to the user.
type Stage int

const (
	StageCaptured Stage = iota
	StageSending
	StageResponded
	StageRendered
)

func (s Stage) String() string {
	switch s {
	case StageCaptured:
		return "captured"
	case StageSending:
		return "sending"
	case StageResponded:
		return "responded"
	case StageRendered:
		return "rendered"
	}
	return "unknown"
}

// Progress shows cycle stages on the page. Clear removes whatever marks
// can be removed.
type Progress interface {
	Mark(Stage) error
	Clear() error
}

// NopProgress shows nothing.
type NopProgress struct{}

func (NopProgress) Mark(Stage) error { return nil }
func (NopProgress) Clear() error     { return nil }

// Liner draws a straight pen stroke.
type Liner interface {
	Line(a, b geom.ScreenPoint) error
}

// penMarks are the top-right corner strokes for each stage: "\" then "/"
// make an X, "|" crosses it and "-" closes the cycle.
var penMarks = map[Stage][2]geom.ScreenPoint{
	StageCaptured:  {{X: 1340, Y: 5}, {X: 1390, Y: 75}},
	StageSending:   {{X: 1340, Y: 75}, {X: 1390, Y: 5}},
	StageResponded: {{X: 1365, Y: 5}, {X: 1365, Y: 75}},
	StageRendered:  {{X: 1330, Y: 40}, {X: 1390, Y: 40}},
}

// PenProgress draws a short stroke per stage. Ink cannot be erased, so
// Clear does nothing.
type PenProgress struct {
	Pen Liner
}

func (p PenProgress) Mark(s Stage) error {
	m, ok := penMarks[s]
	if !ok {
		return nil
	}
	return p.Pen.Line(m[0], m[1])
}

func (PenProgress) Clear() error { return nil }

// Dotter types and erases progress dots.
type Dotter interface {
	Progress() error
	ProgressEnd() error
}

// KeyboardProgress types one "." per stage and backspaces over all of
// them on Clear.
type KeyboardProgress struct {
	Keyboard Dotter
}

func (k KeyboardProgress) Mark(Stage) error { return k.Keyboard.Progress() }

func (k KeyboardProgress) Clear() error { return k.Keyboard.ProgressEnd() }
