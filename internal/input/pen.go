package input

import "github.com/petasbytes/ghostwriter/internal/geom"

// Pen pressure and hover distance values written on contact changes.
const (
	PenPressureDown int32 = 2630
	PenDistanceUp   int32 = 100
)

// Pen emulates the stylus on the digitizer's evdev node.
type Pen struct {
	dev    Emitter
	mapper geom.Mapper
}

func NewPen(dev Emitter, mapper geom.Mapper) *Pen {
	return &Pen{dev: dev, mapper: mapper}
}

func (p *Pen) Down() error {
	return p.dev.Emit(
		Key(BtnToolPen, 1),
		Key(BtnTouch, 1),
		Abs(AbsPressure, PenPressureDown),
		Abs(AbsDistance, 0),
		Syn,
	)
}

func (p *Pen) Up() error {
	return p.dev.Emit(
		Abs(AbsPressure, 0),
		Abs(AbsDistance, PenDistanceUp),
		Key(BtnTouch, 0),
		Key(BtnToolPen, 0),
		Syn,
	)
}

// Goto moves the pen to a screen point.
func (p *Pen) Goto(sp geom.ScreenPoint) error {
	return p.GotoDevice(p.mapper.ToDevice(sp))
}

// GotoDevice moves the pen to raw digitizer coordinates.
func (p *Pen) GotoDevice(dp geom.DevicePoint) error {
	return p.dev.Emit(
		Abs(AbsX, int32(dp.X)),
		Abs(AbsY, int32(dp.Y)),
		Syn,
	)
}
