package main

import (
	"fmt"
	"path"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/petasbytes/ghostwriter/internal/capture"
	"github.com/petasbytes/ghostwriter/internal/geom"
	"github.com/petasbytes/ghostwriter/internal/input"
	"github.com/petasbytes/ghostwriter/internal/render"
)

func newKeyboardTestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keyboard-test",
		Short: "Type a probe string through the virtual keyboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dev, kb, err := a.openKeyboard()
			if err != nil {
				return err
			}
			defer dev.Close()
			if err := kb.Body(); err != nil {
				return err
			}
			return kb.TypeString("hmmm\n")
		},
	}
}

func newCaptureCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Save one screenshot as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			img, err := a.capturer().Capture(cmd.Context())
			if err != nil {
				return err
			}
			b, err := capture.EncodePNG(img)
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			if out == "" {
				out = path.Join(a.cfg.OutputDir, "screenshot.png")
			}
			if err := store.WriteFile(out, b); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path relative to the working directory (default <output-dir>/screenshot.png)")
	return cmd
}

func newDrawCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "draw FILE.svg",
		Short: "Render an SVG file with the pen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			svg, err := store.ReadFile(args[0])
			if err != nil {
				return err
			}
			dev, planner, err := a.openPen()
			if err != nil {
				return err
			}
			defer dev.Close()

			surface := &render.Surface{
				Plotter:    planner,
				Rasterizer: a.rasterizer(),
				Logger:     a.logger.With("component", "render"),
			}
			if a.cfg.SaveBitmap {
				surface.Artifacts = store
				surface.BitmapPath = path.Join(a.cfg.OutputDir, "bitmap.png")
			}
			if err := surface.DrawSVG(string(svg)); err != nil {
				return err
			}
			a.logger.Info("drawn", "file", args[0], "strokes", planner.Strokes)
			return nil
		},
	}
}

func newTapCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tap X Y",
		Short: "Tap the touch screen at screen coordinates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}
			cal := a.cfg.Calibration.Touch
			if x < 0 || x >= cal.ScreenWidth || y < 0 || y >= cal.ScreenHeight {
				return fmt.Errorf("point (%d,%d) is off screen", x, y)
			}
			dev, err := input.Open(a.cfg.Devices.Touch)
			if err != nil {
				return fmt.Errorf("open touch: %w", err)
			}
			defer dev.Close()
			return input.NewTouch(dev, geom.NewMapper(cal)).Tap(geom.ScreenPoint{X: x, Y: y})
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.cfg.TOML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
