package main

import (
	"context"
	"errors"
	"path"

	"github.com/spf13/cobra"

	"github.com/petasbytes/ghostwriter/internal/input"
	"github.com/petasbytes/ghostwriter/internal/render"
	"github.com/petasbytes/ghostwriter/internal/runner"
	"github.com/petasbytes/ghostwriter/internal/stroke"
	"github.com/petasbytes/ghostwriter/internal/trigger"
	"github.com/petasbytes/ghostwriter/tools"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Wait for corner taps and answer with text or drawings (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), false)
		},
	}
}

func newTextAssistCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "text-assist",
		Short: "Like run, but only types text and shows progress as dots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), true)
		},
	}
}

// run wires devices, engine and tools into a runner. textOnly registers
// only draw_text and uses keyboard progress dots.
func (a *app) run(ctx context.Context, textOnly bool) error {
	cfg := a.cfg
	log := a.logger

	a.serveMetrics(ctx)

	store, err := a.store()
	if err != nil {
		return err
	}
	prompt, err := runner.LoadPrompt(store, cfg.PromptsDir, cfg.Prompt)
	if err != nil {
		return err
	}

	var trig runner.Trigger = runner.Immediate{}
	if cfg.InputPNG != "" {
		cfg.NoLoop = true
	} else {
		events, err := a.openTouchEvents()
		if err != nil {
			return err
		}
		defer events.Close()
		trig = runner.TouchTrigger{
			Detector: &trigger.Detector{Zone: cfg.Trigger, Logger: log.With("component", "trigger")},
			Events:   events,
		}
	}

	surface := &render.Surface{Rasterizer: a.rasterizer(), Logger: log.With("component", "render")}
	if cfg.SaveBitmap {
		surface.Artifacts = store
		surface.BitmapPath = path.Join(cfg.OutputDir, "bitmap.png")
	}

	var planner *stroke.Planner
	if !textOnly && !cfg.NoSubmit {
		dev, p, err := a.openPen()
		if err != nil {
			return err
		}
		defer dev.Close()
		planner = p
		surface.Plotter = p
	}

	var keyboard *input.Keyboard
	if !cfg.NoSubmit {
		dev, kb, err := a.openKeyboard()
		switch {
		case err == nil:
			defer dev.Close()
			keyboard = kb
			surface.Keyboard = kb
		case textOnly:
			return err
		default:
			log.Warn("keyboard unavailable; draw_text will fail", "err", err)
		}
	}

	var progress render.Progress = render.NopProgress{}
	switch {
	case cfg.NoDrawProgress:
	case textOnly && keyboard != nil:
		progress = render.KeyboardProgress{Keyboard: keyboard}
	case planner != nil:
		progress = render.PenProgress{Pen: planner}
	}
	surface.Progress = progress

	engine, err := a.engine()
	if err != nil {
		return err
	}
	defs := tools.Registry(surface)
	if textOnly {
		defs = []tools.ToolDefinition{tools.DrawTextDefinition(surface)}
	}
	for _, def := range defs {
		if err := engine.RegisterTool(def); err != nil {
			return err
		}
	}

	r := &runner.Runner{
		Trigger:   trig,
		Capturer:  a.capturer(),
		Engine:    engine,
		Progress:  progress,
		Artifacts: store,
		Prompt:    prompt,
		Options: runner.Options{
			NoSubmit:       cfg.NoSubmit,
			NoLoop:         cfg.NoLoop,
			AbortOnError:   cfg.AbortOnError,
			SaveScreenshot: cfg.SaveScreenshot,
			OutputDir:      cfg.OutputDir,
		},
		Logger: log,
	}
	err = r.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("shutting down")
		return nil
	}
	return err
}
