// Package stroke turns lines and ink bitmaps into ordered pen motions.
package stroke

import (
	"fmt"
	"math"
	"time"

	"github.com/petasbytes/ghostwriter/internal/geom"
	"github.com/petasbytes/ghostwriter/internal/metrics"
	"github.com/petasbytes/ghostwriter/internal/raster"
)

// Pen is the subset of input.Pen the planner drives.
type Pen interface {
	Down() error
	Up() error
	Goto(geom.ScreenPoint) error
}

const (
	// LineSpacing is the maximum distance between consecutive line samples.
	LineSpacing = 5.0

	transitionDelay = time.Millisecond
	rowDelay        = 5 * time.Millisecond
)

// Planner emits pen strokes. Every routine starts and ends with the pen up.
type Planner struct {
	pen Pen

	// Sleep is used for the settle delays between pen transitions.
	Sleep func(time.Duration)

	// Strokes counts pen-down transitions since construction.
	Strokes int

	down bool
	at   geom.ScreenPoint
	have bool
}

func NewPlanner(pen Pen) *Planner {
	return &Planner{pen: pen, Sleep: time.Sleep}
}

func (p *Planner) up() error {
	if err := p.pen.Up(); err != nil {
		return err
	}
	p.down = false
	return nil
}

func (p *Planner) lower() error {
	if err := p.pen.Down(); err != nil {
		return err
	}
	p.down = true
	p.Strokes++
	metrics.PenStrokes.Inc()
	return nil
}

// moveTo skips a move to the position the pen already holds.
func (p *Planner) moveTo(pt geom.ScreenPoint) error {
	if p.have && p.at == pt {
		return nil
	}
	if err := p.pen.Goto(pt); err != nil {
		return err
	}
	p.at, p.have = pt, true
	return nil
}

// abort lifts the pen on a best-effort basis and wraps err.
func (p *Planner) abort(op string, err error) error {
	_ = p.pen.Up()
	p.down = false
	p.have = false
	return fmt.Errorf("stroke %s: %w", op, err)
}

// Line draws a straight segment sampled every LineSpacing pixels.
func (p *Planner) Line(a, b geom.ScreenPoint) error {
	p.have = false
	if err := p.up(); err != nil {
		return p.abort("line", err)
	}
	if err := p.moveTo(a); err != nil {
		return p.abort("line", err)
	}
	if err := p.lower(); err != nil {
		return p.abort("line", err)
	}

	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	steps := int(math.Ceil(math.Hypot(dx, dy) / LineSpacing))
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pt := geom.ScreenPoint{
			X: a.X + int(math.Round(dx*t)),
			Y: a.Y + int(math.Round(dy*t)),
		}
		if err := p.moveTo(pt); err != nil {
			return p.abort("line", err)
		}
	}
	if err := p.up(); err != nil {
		return p.abort("line", err)
	}
	return nil
}

// Bitmap traces every ink run row by row. Each run starts with a one
// pixel overshoot so single-pixel runs still register on the panel.
func (p *Planner) Bitmap(bm raster.Bitmap) error {
	p.have = false
	if err := p.up(); err != nil {
		return p.abort("bitmap", err)
	}
	p.Sleep(transitionDelay)

	for y := 0; y < bm.Height; y++ {
		row := bm.Pix[y*bm.Width : (y+1)*bm.Width]
		for x, ink := range row {
			switch {
			case ink:
				if !p.down {
					if err := p.moveTo(geom.ScreenPoint{X: x, Y: y}); err != nil {
						return p.abort("bitmap", err)
					}
					if err := p.lower(); err != nil {
						return p.abort("bitmap", err)
					}
					p.Sleep(transitionDelay)
				}
				if err := p.moveTo(geom.ScreenPoint{X: x, Y: y}); err != nil {
					return p.abort("bitmap", err)
				}
				if err := p.moveTo(geom.ScreenPoint{X: x + 1, Y: y}); err != nil {
					return p.abort("bitmap", err)
				}
			case p.down:
				if err := p.up(); err != nil {
					return p.abort("bitmap", err)
				}
				p.Sleep(transitionDelay)
			}
		}
		if err := p.up(); err != nil {
			return p.abort("bitmap", err)
		}
		p.Sleep(rowDelay)
	}
	return nil
}
