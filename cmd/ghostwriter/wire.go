package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/petasbytes/ghostwriter/internal/capture"
	"github.com/petasbytes/ghostwriter/internal/config"
	"github.com/petasbytes/ghostwriter/internal/fsops"
	"github.com/petasbytes/ghostwriter/internal/geom"
	"github.com/petasbytes/ghostwriter/internal/input"
	"github.com/petasbytes/ghostwriter/internal/llm"
	"github.com/petasbytes/ghostwriter/internal/logging"
	"github.com/petasbytes/ghostwriter/internal/metrics"
	"github.com/petasbytes/ghostwriter/internal/raster"
	"github.com/petasbytes/ghostwriter/internal/stroke"
)

// keyboardWarmup lets the compositor pick up a freshly created uinput
// keyboard before the first keystroke.
const keyboardWarmup = time.Second

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
}

func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(level)
	return nil
}

// store roots artifact and prompt IO at the working directory.
func (a *app) store() (*fsops.Store, error) {
	return fsops.New(afero.NewOsFs(), "", "")
}

func (a *app) capturer() capture.Capturer {
	if a.cfg.InputPNG != "" {
		return &capture.FileCapturer{Fs: afero.NewOsFs(), Path: a.cfg.InputPNG}
	}
	c := capture.NewProcCapturer(afero.NewOsFs())
	c.ProcessName = a.cfg.Framebuffer.Process
	c.Device = a.cfg.Framebuffer.Device
	c.HeaderSkip = a.cfg.Framebuffer.HeaderSkip
	c.Curve = a.cfg.Contrast
	c.Logger = a.logger.With("component", "capture")
	return c
}

func (a *app) engine() (llm.Engine, error) {
	var (
		vendor llm.Vendor
		err    error
	)
	if a.cfg.Engine != "" {
		vendor, err = llm.ParseVendor(a.cfg.Engine)
	} else {
		vendor, err = llm.VendorForModel(a.cfg.Model)
	}
	if err != nil {
		return nil, err
	}
	return llm.New(vendor, llm.Session{
		Model:     a.cfg.Model,
		APIKey:    a.cfg.APIKey,
		BaseURL:   a.cfg.BaseURL,
		Timeout:   a.cfg.Timeout,
		MaxTokens: a.cfg.MaxTokens,
	}, llm.WithLogger(a.logger.With("component", "llm")))
}

func (a *app) rasterizer() *raster.Rasterizer {
	dirs := raster.DefaultFontDirs
	if a.cfg.FontsDir != "" {
		dirs = []string{a.cfg.FontsDir}
	}
	logger := a.logger.With("component", "raster")
	return raster.New(raster.NewFontCatalog(afero.NewOsFs(), logger, dirs...), logger)
}

// openPen opens the pen device and returns a planner driving it.
func (a *app) openPen() (*input.Device, *stroke.Planner, error) {
	dev, err := input.Open(a.cfg.Devices.Pen)
	if err != nil {
		return nil, nil, fmt.Errorf("open pen: %w", err)
	}
	return dev, stroke.NewPlanner(input.NewPen(dev, geom.NewMapper(a.cfg.Calibration.Pen))), nil
}

func (a *app) openKeyboard() (*input.Device, *input.Keyboard, error) {
	dev, err := input.CreateKeyboard(a.cfg.Devices.UInput, "ghostwriter keyboard", input.KeyboardKeys())
	if err != nil {
		return nil, nil, fmt.Errorf("create keyboard: %w", err)
	}
	time.Sleep(keyboardWarmup)
	return dev, input.NewKeyboard(dev), nil
}

func (a *app) openTouchEvents() (*os.File, error) {
	f, err := os.Open(a.cfg.Devices.Touch)
	if err != nil {
		return nil, fmt.Errorf("open touch: %w", err)
	}
	return f, nil
}

// serveMetrics exposes /metrics until ctx ends. It is a no-op without an
// address.
func (a *app) serveMetrics(ctx context.Context) {
	if a.cfg.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	a.logger.Info("serving metrics", "addr", a.cfg.MetricsAddr)
}
