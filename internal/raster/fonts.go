package raster

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// DefaultFontDirs are scanned when no font directory is configured.
var DefaultFontDirs = []string{"/usr/share/fonts", "/usr/local/share/fonts"}

var goRegular = sync.OnceValue(func() *opentype.Font {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic("raster: bundled font: " + err.Error())
	}
	return f
})

var defaultCatalog = sync.OnceValue(func() *FontCatalog {
	return &FontCatalog{fonts: map[string]*opentype.Font{}, faces: map[faceKey]font.Face{}}
})

type faceKey struct {
	family string
	size   float64
}

// FontCatalog maps family names to fonts. Unknown families resolve to the
// bundled Go Regular face.
type FontCatalog struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

// NewFontCatalog scans dirs on fsys for .ttf and .otf files. Unreadable
// directories and fonts are skipped.
func NewFontCatalog(fsys afero.Fs, logger *slog.Logger, dirs ...string) *FontCatalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &FontCatalog{fonts: map[string]*opentype.Font{}, faces: map[faceKey]font.Face{}}
	for _, dir := range dirs {
		err := afero.Walk(fsys, dir, func(p string, info fs.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(p))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}
			data, err := afero.ReadFile(fsys, p)
			if err != nil {
				logger.Debug("skip font", "path", p, "err", err)
				return nil
			}
			if err := c.Add(data); err != nil {
				logger.Debug("skip font", "path", p, "err", err)
			}
			return nil
		})
		if err != nil {
			logger.Debug("font dir", "dir", dir, "err", err)
		}
	}
	logger.Debug("fonts loaded", "families", len(c.fonts))
	return c
}

// Add registers a font under its family name. The first font seen for a
// family wins.
func (c *FontCatalog) Add(data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return err
	}
	name, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return err
	}
	key := normalizeFamily(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.fonts[key]; !ok {
		c.fonts[key] = f
	}
	return nil
}

// Families lists the registered family keys.
func (c *FontCatalog) Families() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.fonts))
	for k := range c.fonts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Face returns a face of size pixels for the first known family in a CSS
// font-family list.
func (c *FontCatalog) Face(families string, size float64) font.Face {
	c.mu.Lock()
	defer c.mu.Unlock()

	var f *opentype.Font
	family := ""
	for _, name := range strings.Split(families, ",") {
		key := normalizeFamily(name)
		if found, ok := c.fonts[key]; ok {
			f, family = found, key
			break
		}
	}
	if f == nil {
		f = goRegular()
	}

	k := faceKey{family: family, size: size}
	if face, ok := c.faces[k]; ok {
		return face
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		face, _ = opentype.NewFace(goRegular(), &opentype.FaceOptions{Size: size, DPI: 72})
	}
	c.faces[k] = face
	return face
}

func normalizeFamily(name string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(name), `"'`))
}
