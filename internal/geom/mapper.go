package geom

import "math"

// ScreenPoint is a position in logical screen pixels (portrait, origin top-left).
type ScreenPoint struct {
	X, Y int
}

// DevicePoint is a position in a digitizer's native coordinate range.
type DevicePoint struct {
	X, Y int
}

// Calibration describes one physical input surface relative to the screen.
//
// With SwapAxes set, device X follows screen Y and device Y follows screen X.
// FlipX and FlipY mirror the device axes (after the swap) as 1-u.
type Calibration struct {
	ScreenWidth  int  `mapstructure:"screen_width" toml:"screen_width"`
	ScreenHeight int  `mapstructure:"screen_height" toml:"screen_height"`
	DeviceMaxX   int  `mapstructure:"device_max_x" toml:"device_max_x"`
	DeviceMaxY   int  `mapstructure:"device_max_y" toml:"device_max_y"`
	SwapAxes     bool `mapstructure:"swap_axes" toml:"swap_axes"`
	FlipX        bool `mapstructure:"flip_x" toml:"flip_x"`
	FlipY        bool `mapstructure:"flip_y" toml:"flip_y"`
}

// Reference panel (reMarkable 2) geometry.
const (
	ScreenWidth  = 1404
	ScreenHeight = 1872
)

var (
	// PenRM2 is the Wacom digitizer: landscape, rotated, device X grows upwards.
	PenRM2 = Calibration{
		ScreenWidth:  ScreenWidth,
		ScreenHeight: ScreenHeight,
		DeviceMaxX:   20966,
		DeviceMaxY:   15725,
		SwapAxes:     true,
		FlipX:        true,
	}

	// TouchRM2 is the capacitive panel: same resolution, Y inverted.
	TouchRM2 = Calibration{
		ScreenWidth:  ScreenWidth,
		ScreenHeight: ScreenHeight,
		DeviceMaxX:   ScreenWidth,
		DeviceMaxY:   ScreenHeight,
		FlipY:        true,
	}
)

// Mapper converts points for a single calibration.
type Mapper struct {
	cal Calibration
}

func NewMapper(cal Calibration) Mapper {
	return Mapper{cal: cal}
}

// Calibration returns the calibration the mapper was built with.
func (m Mapper) Calibration() Calibration { return m.cal }

// ToDevice maps a screen pixel into the native range, truncating toward zero.
func (m Mapper) ToDevice(p ScreenPoint) DevicePoint {
	nx := float64(p.X) / float64(m.cal.ScreenWidth)
	ny := float64(p.Y) / float64(m.cal.ScreenHeight)

	u, v := nx, ny
	if m.cal.SwapAxes {
		u, v = ny, nx
	}
	if m.cal.FlipX {
		u = 1 - u
	}
	if m.cal.FlipY {
		v = 1 - v
	}
	return DevicePoint{
		X: int(u * float64(m.cal.DeviceMaxX)),
		Y: int(v * float64(m.cal.DeviceMaxY)),
	}
}

// ToScreen is the inverse of ToDevice, rounded to the nearest pixel.
func (m Mapper) ToScreen(p DevicePoint) ScreenPoint {
	u := float64(p.X) / float64(m.cal.DeviceMaxX)
	v := float64(p.Y) / float64(m.cal.DeviceMaxY)
	if m.cal.FlipX {
		u = 1 - u
	}
	if m.cal.FlipY {
		v = 1 - v
	}
	nx, ny := u, v
	if m.cal.SwapAxes {
		nx, ny = v, u
	}
	return ScreenPoint{
		X: int(math.Round(nx * float64(m.cal.ScreenWidth))),
		Y: int(math.Round(ny * float64(m.cal.ScreenHeight))),
	}
}

// Valid reports whether every dimension is positive.
func (c Calibration) Valid() bool {
	return c.ScreenWidth > 0 && c.ScreenHeight > 0 && c.DeviceMaxX > 0 && c.DeviceMaxY > 0
}
