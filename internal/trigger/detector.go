// Package trigger watches the touch panel for the gesture that starts a
// cycle: a finger lifted inside a corner zone.
package trigger

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/petasbytes/ghostwriter/internal/input"
)

// Zone is a rectangle in native touch coordinates. Min bounds are
// exclusive, Max bounds inclusive, and a zero Max leaves that side open.
type Zone struct {
	MinX int `mapstructure:"min_x" toml:"min_x"`
	MinY int `mapstructure:"min_y" toml:"min_y"`
	MaxX int `mapstructure:"max_x" toml:"max_x"`
	MaxY int `mapstructure:"max_y" toml:"max_y"`
}

// DefaultZone is the top-right corner of the reference panel.
var DefaultZone = Zone{MinX: 1360, MinY: 1810}

func (z Zone) Contains(x, y int) bool {
	if x <= z.MinX || y <= z.MinY {
		return false
	}
	if z.MaxX > 0 && x > z.MaxX {
		return false
	}
	if z.MaxY > 0 && y > z.MaxY {
		return false
	}
	return true
}

type Detector struct {
	Zone   Zone
	Logger *slog.Logger
}

// Wait consumes touch events from r until a contact is released inside
// the zone. It returns nil only for that gesture; the end of the stream is
// reported as the reader's error (io.EOF).
//
// Cancelling ctx unblocks a pending read: r gets an immediate read deadline
// when it supports one (an *os.File on a pollable device), otherwise it is
// closed if it is an io.Closer. Wait then returns ctx.Err().
func (d *Detector) Wait(ctx context.Context, r io.Reader) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	stop := context.AfterFunc(ctx, func() { interrupt(r, logger) })
	defer stop()

	events := input.NewReader(r)
	var x, y int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := events.Next()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
		if ev.Type != input.EvAbs {
			continue
		}
		switch ev.Code {
		case input.AbsMTPositionX:
			x = int(ev.Value)
		case input.AbsMTPositionY:
			y = int(ev.Value)
		case input.AbsMTTrackingID:
			if ev.Value != -1 {
				continue
			}
			if d.Zone.Contains(x, y) {
				logger.Debug("trigger", "x", x, "y", y)
				return nil
			}
			logger.Debug("release outside zone", "x", x, "y", y)
		}
	}
}

type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// interrupt makes a blocked read on r return.
func interrupt(r io.Reader, logger *slog.Logger) {
	if dl, ok := r.(deadliner); ok {
		if err := dl.SetReadDeadline(time.Now()); err == nil {
			return
		}
	}
	if c, ok := r.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Debug("close touch stream", "err", err)
		}
	}
}
