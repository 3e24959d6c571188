package main

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/ghostwriter/internal/input"
)

// executeCLI runs the root command in a fresh working directory and HOME.
func executeCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func readEvents(t *testing.T, path string) []input.Event {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := input.NewReader(f)
	var out []input.Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, ev)
	}
}

func TestConfigCommandPrintsTOML(t *testing.T) {
	out, err := executeCLI(t, t.TempDir(), "config", "--model", "gemini-2.0-flash", "--api-key", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "gemini-2.0-flash")
	assert.Contains(t, out, "[framebuffer]")
	assert.NotContains(t, out, "secret")
}

func TestInvalidConfigIsRejected(t *testing.T) {
	_, err := executeCLI(t, t.TempDir(), "config", "--engine", "mistral")
	require.Error(t, err)
}

func TestCaptureFromPNG(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "page.png"))

	out, err := executeCLI(t, dir, "capture", "--input-png", "page.png", "--out", "shots/page-copy.png")
	require.NoError(t, err)
	assert.Equal(t, "shots/page-copy.png", strings.TrimSpace(out))

	f, err := os.Open(filepath.Join(dir, "shots", "page-copy.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestRunNoSubmitSavesScreenshot(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "page.png"))

	_, err := executeCLI(t, dir, "run", "--input-png", "page.png", "--no-submit", "--save-screenshot", "--output-dir", "out")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "out", "screenshot.png"))
	require.NoError(t, err)
}

func TestDrawWritesPenEvents(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "box.svg"), []byte(
		`<svg xmlns="http://www.w3.org/2000/svg" width="1404" height="1872"><rect x="10" y="10" width="6" height="3"/></svg>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pen.bin"), nil, 0o644))

	_, err := executeCLI(t, dir, "draw", "box.svg", "--pen-device", "pen.bin", "--save-bitmap", "--output-dir", "out")
	require.NoError(t, err)

	events := readEvents(t, filepath.Join(dir, "pen.bin"))
	require.NotEmpty(t, events)
	downs := 0
	for _, ev := range events {
		if ev.Type == input.EvKey && ev.Code == input.BtnTouch && ev.Value == 1 {
			downs++
		}
	}
	assert.Equal(t, 3, downs, "one stroke per ink row")
	_, err = os.Stat(filepath.Join(dir, "out", "bitmap.png"))
	require.NoError(t, err)
}

func TestTapWritesTouchEvents(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "touch.bin"), nil, 0o644))

	_, err := executeCLI(t, dir, "tap", "100", "200", "--touch-device", "touch.bin")
	require.NoError(t, err)

	var ids []int32
	for _, ev := range readEvents(t, filepath.Join(dir, "touch.bin")) {
		if ev.Type == input.EvAbs && ev.Code == input.AbsMTTrackingID {
			ids = append(ids, ev.Value)
		}
	}
	assert.Equal(t, []int32{1, -1}, ids)
}

func TestTapRejectsOffScreenPoint(t *testing.T) {
	_, err := executeCLI(t, t.TempDir(), "tap", "5000", "1", "--touch-device", "touch.bin")
	require.Error(t, err)
}
