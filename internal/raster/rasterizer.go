package raster

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/petasbytes/ghostwriter/internal/geom"
)

// FallbackSVG is drawn in place of any document that fails to parse.
const FallbackSVG = `<svg width='1404' height='1872' xmlns='http://www.w3.org/2000/svg'><text x='300' y='1285' font-family='Noto Sans' font-size='24'>ERROR!</text></svg>`

type Rasterizer struct {
	Width  int
	Height int
	Fonts  *FontCatalog
	Logger *slog.Logger
}

// New returns a screen-sized rasterizer using fonts.
func New(fonts *FontCatalog, logger *slog.Logger) *Rasterizer {
	return &Rasterizer{Width: geom.ScreenWidth, Height: geom.ScreenHeight, Fonts: fonts, Logger: logger}
}

func (r *Rasterizer) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Rasterizer) fonts() *FontCatalog {
	if r.Fonts == nil {
		return defaultCatalog()
	}
	return r.Fonts
}

// Rasterize renders svg to a Width×Height ink mask.
func (r *Rasterizer) Rasterize(svg string) Bitmap {
	bm, err := r.Render(svg)
	if err == nil {
		return bm
	}
	r.logger().Warn("rasterize_fallback", "err", err, "svg_bytes", len(svg))
	bm, err = r.Render(FallbackSVG)
	if err != nil {
		r.logger().Error("fallback render failed", "err", err)
		return NewBitmap(r.Width, r.Height)
	}
	return bm
}

// Render is Rasterize without the fallback.
func (r *Rasterizer) Render(svg string) (Bitmap, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return Bitmap{}, fmt.Errorf("rasterize: invalid canvas %dx%d", r.Width, r.Height)
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return Bitmap{}, fmt.Errorf("rasterize: parse svg: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		icon.ViewBox.W, icon.ViewBox.H = float64(r.Width), float64(r.Height)
	}

	runs, err := parseText(svg)
	if err != nil {
		return Bitmap{}, fmt.Errorf("rasterize: %w", err)
	}

	w, h := r.Width, r.Height
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, canvas, canvas.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.SetTarget(0, 0, float64(w), float64(h))
	icon.Draw(dasher, 1.0)

	drawText(canvas, runs, icon.Transform, r.fonts())
	return FromImage(canvas), nil
}
