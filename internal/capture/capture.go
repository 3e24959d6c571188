// Package capture reads the live screen out of the rendering process's
// framebuffer mapping and converts it to a grayscale image.
package capture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/petasbytes/ghostwriter/internal/geom"
)

// ErrCapture wraps every failure to locate or read the framebuffer.
var ErrCapture = errors.New("capture failed")

// Capturer produces one screenshot per call.
type Capturer interface {
	Capture(ctx context.Context) (*image.Gray, error)
}

// Defaults for the reference panel.
const (
	DefaultProcess    = "xochitl"
	DefaultDevice     = "/dev/fb0"
	DefaultHeaderSkip = 7
	bytesPerSample    = 2
)

// ProcCapturer finds the framebuffer through /proc/<pid>/maps and reads it
// from /proc/<pid>/mem.
type ProcCapturer struct {
	Fs          afero.Fs
	ProcessName string
	Device      string
	HeaderSkip  int64
	Width       int
	Height      int
	Curve       Curve
	Logger      *slog.Logger
}

// NewProcCapturer returns a capturer for the reference panel on fs.
func NewProcCapturer(fs afero.Fs) *ProcCapturer {
	return &ProcCapturer{
		Fs:          fs,
		ProcessName: DefaultProcess,
		Device:      DefaultDevice,
		HeaderSkip:  DefaultHeaderSkip,
		Width:       geom.ScreenWidth,
		Height:      geom.ScreenHeight,
		Curve:       DefaultCurve,
		Logger:      slog.New(slog.DiscardHandler),
	}
}

func (c *ProcCapturer) Capture(ctx context.Context) (*image.Gray, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pid, offset, err := c.Locate()
	if err != nil {
		return nil, err
	}
	raw, err := c.read(pid, offset)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("framebuffer read", "pid", pid, "offset", fmt.Sprintf("%#x", offset), "bytes", len(raw))
	return Decode(raw, c.Width, c.Height, c.Curve)
}

// Locate returns the pid of the process mapping the framebuffer device and
// the memory offset where pixel data starts.
func (c *ProcCapturer) Locate() (string, int64, error) {
	entries, err := afero.ReadDir(c.Fs, "/proc")
	if err != nil {
		return "", 0, fmt.Errorf("%w: list /proc: %v", ErrCapture, err)
	}
	var pids []int
	for _, e := range entries {
		if n, err := strconv.Atoi(e.Name()); err == nil && e.IsDir() {
			pids = append(pids, n)
		}
	}
	sort.Ints(pids)

	for _, n := range pids {
		pid := strconv.Itoa(n)
		if c.ProcessName != "" {
			comm, err := afero.ReadFile(c.Fs, path.Join("/proc", pid, "comm"))
			if err != nil || strings.TrimSpace(string(comm)) != c.ProcessName {
				continue
			}
		}
		start, found, err := c.scanMaps(pid)
		if err != nil {
			return "", 0, err
		}
		if found {
			return pid, start + c.HeaderSkip, nil
		}
	}
	return "", 0, fmt.Errorf("%w: no %q process maps %s", ErrCapture, c.ProcessName, c.Device)
}

// scanMaps returns the start address of the mapping that follows the
// device mapping, or of the device mapping itself when it is the last one.
func (c *ProcCapturer) scanMaps(pid string) (int64, bool, error) {
	f, err := c.Fs.Open(path.Join("/proc", pid, "maps"))
	if err != nil {
		return 0, false, nil
	}
	defer f.Close()

	var deviceLine string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if deviceLine != "" {
			start, err := mapStart(line)
			return start, true, err
		}
		if strings.Contains(line, c.Device) {
			deviceLine = line
		}
	}
	if err := sc.Err(); err != nil {
		return 0, false, fmt.Errorf("%w: read maps of %s: %v", ErrCapture, pid, err)
	}
	if deviceLine == "" {
		return 0, false, nil
	}
	start, err := mapStart(deviceLine)
	return start, true, err
}

func mapStart(line string) (int64, error) {
	addr, _, ok := strings.Cut(line, "-")
	if !ok {
		return 0, fmt.Errorf("%w: malformed maps line %q", ErrCapture, line)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(addr), 16, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed maps address %q: %v", ErrCapture, addr, err)
	}
	return int64(v), nil
}

func (c *ProcCapturer) read(pid string, offset int64) ([]byte, error) {
	memPath := path.Join("/proc", pid, "mem")
	f, err := c.Fs.Open(memPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrCapture, memPath, err)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek %s: %v", ErrCapture, memPath, err)
	}
	buf := make([]byte, c.Width*c.Height*bytesPerSample)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCapture, memPath, err)
	}
	return buf, nil
}
