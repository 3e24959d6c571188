package input

import "github.com/petasbytes/ghostwriter/internal/geom"

// Touch emulates single-finger taps using multi-touch protocol B.
type Touch struct {
	dev        Emitter
	mapper     geom.Mapper
	trackingID int32
}

func NewTouch(dev Emitter, mapper geom.Mapper) *Touch {
	return &Touch{dev: dev, mapper: mapper}
}

// Press puts a contact down at sp in slot 0.
func (t *Touch) Press(sp geom.ScreenPoint) error {
	dp := t.mapper.ToDevice(sp)
	t.trackingID++
	return t.dev.Emit(
		Abs(AbsMTSlot, 0),
		Abs(AbsMTTrackingID, t.trackingID),
		Abs(AbsMTPositionX, int32(dp.X)),
		Abs(AbsMTPositionY, int32(dp.Y)),
		Abs(AbsMTPressure, 81),
		Abs(AbsMTTouchMajor, 17),
		Abs(AbsMTTouchMinor, 17),
		Abs(AbsMTOrientation, 4),
		Syn,
	)
}

// Release lifts the slot 0 contact.
func (t *Touch) Release() error {
	return t.dev.Emit(
		Abs(AbsMTSlot, 0),
		Abs(AbsMTTrackingID, -1),
		Syn,
	)
}

func (t *Touch) Tap(sp geom.ScreenPoint) error {
	if err := t.Press(sp); err != nil {
		return err
	}
	return t.Release()
}
