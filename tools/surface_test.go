package tools_test

import "errors"

var errSurface = errors.New("surface failed")

// fakeSurface records what the tools asked it to render.
type fakeSurface struct {
	texts []string
	svgs  []string
	fail  bool
}

func (f *fakeSurface) TypeText(text string) error {
	if f.fail {
		return errSurface
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeSurface) DrawSVG(svg string) error {
	if f.fail {
		return errSurface
	}
	f.svgs = append(f.svgs, svg)
	return nil
}
