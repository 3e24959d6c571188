// Package raster turns SVG documents into ink bitmaps sized to the screen.
//
// Shapes and paths go through oksvg and rasterx. Text elements, which
// oksvg does not handle, are laid out separately with golang.org/x/image
// fonts on the same canvas. A pixel is ink when its alpha exceeds 128.
//
// Rasterize never fails: a document that cannot be parsed is logged and
// replaced by a fixed placeholder so the user still sees a response.
package raster
