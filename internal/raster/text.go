package raster

import (
	"encoding/xml"
	"fmt"
	"image"
	"image/draw"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const defaultFontSize = 16

type textStyle struct {
	size   float64
	family string
	anchor string
	fill   bool
}

var defaultTextStyle = textStyle{size: defaultFontSize, anchor: "start", fill: true}

// textRun is one positioned line of text in document coordinates.
type textRun struct {
	x, y  float64
	style textStyle
	m     rasterx.Matrix2D
	text  strings.Builder
}

type textFrame struct {
	m     rasterx.Matrix2D
	style textStyle
}

// parseText collects <text> and positioned <tspan> runs. It also compiles
// every path so malformed path data is reported, which oksvg skips over in
// its lenient mode.
func parseText(svg string) ([]*textRun, error) {
	dec := xml.NewDecoder(strings.NewReader(svg))
	stack := []textFrame{{m: rasterx.Identity, style: defaultTextStyle}}
	var runs []*textRun
	depth := 0
	rooted := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !rooted {
				if t.Name.Local != "svg" {
					return nil, fmt.Errorf("parse svg: root element is <%s>", t.Name.Local)
				}
				rooted = true
			}
			top := stack[len(stack)-1]
			m := top.m
			if v, ok := attr(t, "transform"); ok {
				tm, err := parseTransform(v)
				if err != nil {
					return nil, err
				}
				m = m.Mult(tm)
			}
			st, err := top.style.with(t.Attr)
			if err != nil {
				return nil, err
			}
			stack = append(stack, textFrame{m: m, style: st})

			switch t.Name.Local {
			case "path":
				if d, ok := attr(t, "d"); ok {
					pc := oksvg.PathCursor{ErrorMode: oksvg.StrictErrorMode}
					if err := pc.CompilePath(d); err != nil {
						return nil, fmt.Errorf("path %q: %w", abbreviate(d), err)
					}
				}
			case "text":
				depth++
				x, _ := coord(t, "x")
				y, _ := coord(t, "y")
				runs = append(runs, &textRun{x: x, y: y, style: st, m: m})
			case "tspan":
				if depth == 0 || len(runs) == 0 {
					continue
				}
				last := runs[len(runs)-1]
				x, hasX := coord(t, "x")
				y, hasY := coord(t, "y")
				var dy float64
				if v, ok := attr(t, "dy"); ok {
					dy, _ = parseLength(firstField(v), st.size)
				}
				if !hasX && !hasY && dy == 0 {
					continue
				}
				if !hasX {
					x = last.x
				}
				if !hasY {
					y = last.y
				}
				runs = append(runs, &textRun{x: x, y: y + dy, style: st, m: m})
			}
		case xml.EndElement:
			if t.Name.Local == "text" && depth > 0 {
				depth--
			}
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if depth > 0 && len(runs) > 0 {
				runs[len(runs)-1].text.Write(t)
			}
		}
	}
	if !rooted {
		return nil, fmt.Errorf("parse svg: no <svg> element")
	}
	return runs, nil
}

func drawText(dst draw.Image, runs []*textRun, root rasterx.Matrix2D, fonts *FontCatalog) {
	for _, run := range runs {
		s := strings.Join(strings.Fields(run.text.String()), " ")
		if s == "" || !run.style.fill {
			continue
		}
		m := root.Mult(run.m)
		x, y := m.Transform(run.x, run.y)
		scale := math.Sqrt(math.Abs(m.A*m.D - m.B*m.C))
		size := run.style.size * scale
		if size <= 0 {
			continue
		}
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.Black,
			Face: fonts.Face(run.style.family, size),
		}
		adv := float64(d.MeasureString(s)) / 64
		switch run.style.anchor {
		case "middle":
			x -= adv / 2
		case "end":
			x -= adv
		}
		d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
		d.DrawString(s)
	}
}

func (s textStyle) with(attrs []xml.Attr) (textStyle, error) {
	out := s
	apply := func(k, v string) error {
		v = strings.TrimSpace(v)
		switch k {
		case "font-size":
			size, err := parseLength(v, s.size)
			if err != nil {
				return fmt.Errorf("font-size %q: %w", v, err)
			}
			out.size = size
		case "font-family":
			out.family = v
		case "text-anchor":
			out.anchor = v
		case "fill":
			out.fill = v != "none" && v != "transparent"
		}
		return nil
	}
	for _, a := range attrs {
		if a.Name.Local == "style" {
			for _, decl := range strings.Split(a.Value, ";") {
				k, v, ok := strings.Cut(decl, ":")
				if !ok {
					continue
				}
				if err := apply(strings.TrimSpace(k), v); err != nil {
					return s, err
				}
			}
			continue
		}
		if err := apply(a.Name.Local, a.Value); err != nil {
			return s, err
		}
	}
	return out, nil
}

func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// coord reads the first value of a coordinate list attribute.
func coord(se xml.StartElement, name string) (float64, bool) {
	v, ok := attr(se, name)
	if !ok {
		return 0, false
	}
	f, err := parseLength(firstField(v), defaultFontSize)
	if err != nil {
		return 0, false
	}
	return f, true
}

func firstField(v string) string {
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// parseLength accepts unitless, px, pt and em values. em is relative to
// the inherited font size.
func parseLength(v string, em float64) (float64, error) {
	v = strings.TrimSpace(v)
	mult := 1.0
	switch {
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "pt"):
		v, mult = strings.TrimSuffix(v, "pt"), 4.0/3.0
	case strings.HasSuffix(v, "em"):
		v, mult = strings.TrimSuffix(v, "em"), em
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return f * mult, nil
}

var transformRe = regexp.MustCompile(`([a-zA-Z]+)\s*\(([^)]*)\)`)

func parseTransform(v string) (rasterx.Matrix2D, error) {
	m := rasterx.Identity
	for _, match := range transformRe.FindAllStringSubmatch(v, -1) {
		var args []float64
		for _, f := range strings.FieldsFunc(match[2], func(r rune) bool { return r == ',' || r == ' ' }) {
			n, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return m, fmt.Errorf("transform %q: %w", v, err)
			}
			args = append(args, n)
		}
		bad := fmt.Errorf("transform %q: wrong argument count", v)
		switch strings.ToLower(match[1]) {
		case "translate":
			switch len(args) {
			case 1:
				m = m.Translate(args[0], 0)
			case 2:
				m = m.Translate(args[0], args[1])
			default:
				return m, bad
			}
		case "scale":
			switch len(args) {
			case 1:
				m = m.Scale(args[0], args[0])
			case 2:
				m = m.Scale(args[0], args[1])
			default:
				return m, bad
			}
		case "rotate":
			switch len(args) {
			case 1:
				m = m.Rotate(args[0] * math.Pi / 180)
			case 3:
				m = m.Translate(args[1], args[2]).Rotate(args[0]*math.Pi/180).Translate(-args[1], -args[2])
			default:
				return m, bad
			}
		case "matrix":
			if len(args) != 6 {
				return m, bad
			}
			m = m.Mult(rasterx.Matrix2D{A: args[0], B: args[1], C: args[2], D: args[3], E: args[4], F: args[5]})
		}
	}
	return m, nil
}

func abbreviate(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}
