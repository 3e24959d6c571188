package runner

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/petasbytes/ghostwriter/internal/capture"
	"github.com/petasbytes/ghostwriter/internal/input"
	"github.com/petasbytes/ghostwriter/internal/llm"
	"github.com/petasbytes/ghostwriter/internal/metrics"
	"github.com/petasbytes/ghostwriter/internal/render"
	"github.com/petasbytes/ghostwriter/internal/telemetry"
	"github.com/petasbytes/ghostwriter/internal/trigger"
)

// ErrNotSubmitted ends a cycle that stopped after capture on request.
var ErrNotSubmitted = errors.New("screenshot not submitted")

// Trigger blocks until the next cycle should start.
type Trigger interface {
	Wait(ctx context.Context) error
}

// TouchTrigger waits for the corner gesture on a touch event stream.
type TouchTrigger struct {
	Detector *trigger.Detector
	Events   io.Reader
}

func (t TouchTrigger) Wait(ctx context.Context) error {
	return t.Detector.Wait(ctx, t.Events)
}

// Immediate fires at once. Used for offline runs from a PNG.
type Immediate struct{}

func (Immediate) Wait(ctx context.Context) error { return ctx.Err() }

// Annotator derives extra text content from a screenshot, such as a
// segmentation summary, to send alongside the image.
type Annotator interface {
	Annotate(ctx context.Context, img *image.Gray) (string, error)
}

// ArtifactWriter stores debug artifacts relative to the output root.
type ArtifactWriter interface {
	WriteFile(relPath string, data []byte) error
}

type Options struct {
	NoSubmit       bool
	NoLoop         bool
	AbortOnError   bool
	SaveScreenshot bool
	OutputDir      string
}

type Runner struct {
	Trigger   Trigger
	Capturer  capture.Capturer
	Engine    llm.Engine
	Progress  render.Progress
	Annotator Annotator
	Artifacts ArtifactWriter
	Prompt    string
	Options   Options
	Logger    *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) progress() render.Progress {
	if r.Progress == nil {
		return render.NopProgress{}
	}
	return r.Progress
}

// Run waits for triggers and runs cycles until the context ends, the
// trigger source fails, or a single cycle completes under NoLoop.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.logger().Info("waiting for trigger")
		if err := r.Trigger.Wait(ctx); err != nil {
			return fmt.Errorf("wait for trigger: %w", err)
		}

		err := r.Cycle(ctx)
		switch {
		case errors.Is(err, ErrNotSubmitted):
			r.logger().Info("screenshot captured; not submitted")
			return nil
		case err != nil:
			metrics.CycleErrors.WithLabelValues(ErrorKind(err)).Inc()
			r.logger().Error("cycle failed", "kind", ErrorKind(err), "err", err)
			if r.Options.AbortOnError || r.Options.NoLoop {
				return err
			}
		}
		if r.Options.NoLoop {
			return nil
		}
	}
}

// Cycle performs one capture and dispatch.
func (r *Runner) Cycle(ctx context.Context) (err error) {
	cycleID := telemetry.NewCycleID()
	ctx = telemetry.WithCycleID(ctx, cycleID)
	log := r.logger().With("cycle", cycleID)
	metrics.Cycles.Inc()
	telemetry.Emit("cycle_start", map[string]any{"cycle_id": cycleID})

	defer func() {
		if cerr := r.progress().Clear(); cerr != nil && err == nil {
			err = fmt.Errorf("clear progress: %w", cerr)
		}
	}()

	start := time.Now()
	img, err := r.Capturer.Capture(ctx)
	if err != nil {
		return err
	}
	if err := r.progress().Mark(render.StageCaptured); err != nil {
		return fmt.Errorf("progress: %w", err)
	}

	png, err := capture.EncodePNG(img)
	if err != nil {
		return err
	}
	telemetry.Emit("capture", map[string]any{
		"cycle_id":    cycleID,
		"width":       img.Bounds().Dx(),
		"height":      img.Bounds().Dy(),
		"png_bytes":   len(png),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	r.saveScreenshot(log, png)

	if r.Options.NoSubmit {
		return ErrNotSubmitted
	}

	r.Engine.ClearContent()
	r.Engine.AddText(r.Prompt)
	if r.Annotator != nil {
		note, err := r.Annotator.Annotate(ctx, img)
		if err != nil {
			log.Warn("annotate", "err", err)
		} else if note != "" {
			r.Engine.AddText(note)
		}
	}
	b64, err := capture.EncodeBase64PNG(img)
	if err != nil {
		return err
	}
	r.Engine.AddImage(b64)

	if err := r.progress().Mark(render.StageSending); err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	log.Info("sending", "vendor", r.Engine.Vendor())

	call, err := r.Engine.Execute(ctx)
	if err != nil {
		return err
	}
	log.Info("cycle done", "tool", call.Tool, "result", call.Result, "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

func (r *Runner) saveScreenshot(log *slog.Logger, png []byte) {
	if !r.Options.SaveScreenshot || r.Artifacts == nil {
		return
	}
	rel := path.Join(r.Options.OutputDir, "screenshot.png")
	if err := r.Artifacts.WriteFile(rel, png); err != nil {
		log.Warn("save screenshot", "path", rel, "err", err)
		return
	}
	log.Debug("screenshot saved", "path", rel)
}

// ErrorKind labels err for metrics and logs.
func ErrorKind(err error) string {
	if k := llm.Kind(err); k != "" {
		return k
	}
	switch {
	case errors.Is(err, capture.ErrCapture):
		return "capture"
	case errors.Is(err, input.ErrDeviceIO):
		return "device"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "other"
}
