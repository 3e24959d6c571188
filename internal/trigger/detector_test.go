package trigger_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/ghostwriter/internal/input"
	"github.com/petasbytes/ghostwriter/internal/trigger"
)

func touchStream(t *testing.T, taps ...[2]int32) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for i, p := range taps {
		require.NoError(t, input.Encode(&buf,
			input.Abs(input.AbsMTTrackingID, int32(i+1)),
			input.Abs(input.AbsMTPositionX, p[0]),
			input.Abs(input.AbsMTPositionY, p[1]),
			input.Syn,
			input.Abs(input.AbsMTTrackingID, -1),
			input.Syn,
		))
	}
	return &buf
}

func TestWaitFiresInZone(t *testing.T) {
	d := &trigger.Detector{Zone: trigger.DefaultZone}
	stream := touchStream(t, [2]int32{100, 100}, [2]int32{1390, 1850}, [2]int32{5, 5})

	require.NoError(t, d.Wait(context.Background(), stream))
	assert.Positive(t, stream.Len(), "events after the trigger must stay unread")
}

func TestWaitOutsideZoneReachesEOF(t *testing.T) {
	d := &trigger.Detector{Zone: trigger.DefaultZone}
	stream := touchStream(t, [2]int32{100, 100}, [2]int32{1390, 100}, [2]int32{100, 1850})

	err := d.Wait(context.Background(), stream)
	assert.True(t, errors.Is(err, io.EOF), "err = %v", err)
}

func TestWaitContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &trigger.Detector{Zone: trigger.DefaultZone}

	err := d.Wait(ctx, touchStream(t, [2]int32{1390, 1850}))
	assert.ErrorIs(t, err, context.Canceled)
}

// waitAsync runs Wait in the background and returns its result channel.
func waitAsync(ctx context.Context, r io.Reader) <-chan error {
	done := make(chan error, 1)
	go func() {
		d := &trigger.Detector{Zone: trigger.DefaultZone}
		done <- d.Wait(ctx, r)
	}()
	return done
}

func TestWaitCancelUnblocksClosableReader(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := waitAsync(ctx, pr)

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait stayed blocked after cancel")
	}
}

func TestWaitCancelUnblocksFileRead(t *testing.T) {
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := waitAsync(ctx, pr)

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait stayed blocked after cancel")
	}
}

func TestWaitSucceedsWithoutCancel(t *testing.T) {
	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := waitAsync(ctx, pr)

	go func() {
		var buf bytes.Buffer
		_ = input.Encode(&buf,
			input.Abs(input.AbsMTTrackingID, 1),
			input.Abs(input.AbsMTPositionX, 1390),
			input.Abs(input.AbsMTPositionY, 1850),
			input.Abs(input.AbsMTTrackingID, -1),
		)
		_, _ = pw.Write(buf.Bytes())
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("trigger never fired")
	}
}

func TestZoneContains(t *testing.T) {
	z := trigger.DefaultZone
	assert.True(t, z.Contains(1361, 1811))
	assert.False(t, z.Contains(1360, 1850))
	assert.False(t, z.Contains(1390, 1810))

	bounded := trigger.Zone{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20}
	assert.True(t, bounded.Contains(20, 20))
	assert.False(t, bounded.Contains(21, 15))
	assert.False(t, bounded.Contains(15, 21))
}
