// Package render puts tool output on the page: text through the virtual
// keyboard and SVG through the rasterizer and pen.
package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/petasbytes/ghostwriter/internal/input"
	"github.com/petasbytes/ghostwriter/internal/metrics"
	"github.com/petasbytes/ghostwriter/internal/raster"
	"github.com/petasbytes/ghostwriter/internal/telemetry"
)

// Typist is the keyboard subset used for text output.
type Typist interface {
	Body() error
	TypeString(s string) error
}

// Plotter draws an ink bitmap with the pen.
type Plotter interface {
	Bitmap(bm raster.Bitmap) error
}

// ArtifactWriter stores debug artifacts such as the rendered bitmap.
type ArtifactWriter interface {
	WriteFile(relPath string, data []byte) error
}

// Surface implements tools.Surface on the tablet. Either output path may be
// nil when the corresponding device is unavailable.
type Surface struct {
	Keyboard   Typist
	Plotter    Plotter
	Rasterizer *raster.Rasterizer
	Logger     *slog.Logger

	// Progress is marked responded before any output. Keyboard marks are
	// cleared before text is typed so the erase cannot hit the output.
	Progress Progress

	// Artifacts and BitmapPath enable saving each rendered bitmap as PNG.
	Artifacts  ArtifactWriter
	BitmapPath string
}

func (s *Surface) progress() Progress {
	if s.Progress == nil {
		return NopProgress{}
	}
	return s.Progress
}

func (s *Surface) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// TypeText switches to body style and types text followed by a blank line.
func (s *Surface) TypeText(text string) error {
	if s.Keyboard == nil {
		return fmt.Errorf("type text: no keyboard attached")
	}
	start := time.Now()
	if err := s.progress().Mark(StageResponded); err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	if err := s.progress().Clear(); err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	if err := s.Keyboard.Body(); err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	out := text + "\n\n"
	if err := s.Keyboard.TypeString(out); err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	st := metrics.MeasureText(out, input.Typeable)
	metrics.Keystrokes.Add(float64(st.Typed))
	if st.Skipped > 0 {
		s.logger().Warn("characters without a key were skipped", "skipped", st.Skipped)
	}
	telemetry.EmitTextFeatures(context.Background(), "typed", st)
	telemetry.Emit("render", map[string]any{
		"kind":        "text",
		"runes":       st.Runes,
		"typed":       st.Typed,
		"skipped":     st.Skipped,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// DrawSVG rasterizes svg at screen size and strokes the result.
func (s *Surface) DrawSVG(svg string) error {
	if s.Plotter == nil {
		return fmt.Errorf("draw svg: no pen attached")
	}
	start := time.Now()
	if err := s.progress().Mark(StageResponded); err != nil {
		return fmt.Errorf("draw svg: %w", err)
	}
	r := s.Rasterizer
	if r == nil {
		r = raster.New(nil, s.logger())
	}
	bm := r.Rasterize(svg)
	s.saveBitmap(bm)

	if err := s.Plotter.Bitmap(bm); err != nil {
		return fmt.Errorf("draw svg: %w", err)
	}
	if err := s.progress().Mark(StageRendered); err != nil {
		return fmt.Errorf("draw svg: %w", err)
	}
	telemetry.Emit("render", map[string]any{
		"kind":        "svg",
		"ink_pixels":  bm.InkCount(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// saveBitmap is best effort; failures are logged.
func (s *Surface) saveBitmap(bm raster.Bitmap) {
	if s.Artifacts == nil || s.BitmapPath == "" {
		return
	}
	var buf bytes.Buffer
	if err := bm.Encode(&buf); err != nil {
		s.logger().Warn("encode bitmap", "err", err)
		return
	}
	if err := s.Artifacts.WriteFile(s.BitmapPath, buf.Bytes()); err != nil {
		s.logger().Warn("save bitmap", "path", s.BitmapPath, "err", err)
		return
	}
	s.logger().Debug("bitmap saved", "path", s.BitmapPath)
}
