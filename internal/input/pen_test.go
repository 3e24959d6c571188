package input_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/ghostwriter/internal/geom"
	"github.com/petasbytes/ghostwriter/internal/input"
	"github.com/petasbytes/ghostwriter/internal/input/inputtest"
)

func TestPenDownUp(t *testing.T) {
	rec := &inputtest.Recorder{}
	pen := input.NewPen(rec, geom.NewMapper(geom.PenRM2))

	require.NoError(t, pen.Down())
	require.NoError(t, pen.Up())

	require.Len(t, rec.Batches, 2)
	assert.Equal(t, []input.Event{
		input.Key(input.BtnToolPen, 1),
		input.Key(input.BtnTouch, 1),
		input.Abs(input.AbsPressure, input.PenPressureDown),
		input.Abs(input.AbsDistance, 0),
		input.Syn,
	}, rec.Batches[0])
	assert.Equal(t, []input.Event{
		input.Abs(input.AbsPressure, 0),
		input.Abs(input.AbsDistance, input.PenDistanceUp),
		input.Key(input.BtnTouch, 0),
		input.Key(input.BtnToolPen, 0),
		input.Syn,
	}, rec.Batches[1])
}

func TestPenGotoMapsToDigitizer(t *testing.T) {
	rec := &inputtest.Recorder{}
	m := geom.NewMapper(geom.PenRM2)
	pen := input.NewPen(rec, m)

	require.NoError(t, pen.Goto(geom.ScreenPoint{X: 0, Y: 0}))
	dp := m.ToDevice(geom.ScreenPoint{X: 0, Y: 0})
	assert.Equal(t, []input.Event{
		input.Abs(input.AbsX, int32(dp.X)),
		input.Abs(input.AbsY, int32(dp.Y)),
		input.Syn,
	}, rec.Batches[0])
}

func TestTouchTap(t *testing.T) {
	rec := &inputtest.Recorder{}
	touch := input.NewTouch(rec, geom.NewMapper(geom.TouchRM2))

	require.NoError(t, touch.Tap(geom.ScreenPoint{X: 100, Y: 200}))
	require.Len(t, rec.Batches, 2)

	press := rec.Batches[0]
	assert.Equal(t, input.Abs(input.AbsMTTrackingID, 1), press[1])
	assert.Equal(t, input.Syn, press[len(press)-1])
	assert.Equal(t, []input.Event{
		input.Abs(input.AbsMTSlot, 0),
		input.Abs(input.AbsMTTrackingID, -1),
		input.Syn,
	}, rec.Batches[1])
}
