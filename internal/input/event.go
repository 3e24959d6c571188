package input

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrDeviceIO marks a failed write to (or read from) an input device.
var ErrDeviceIO = errors.New("input: device io")

// Event is one input_event without its timestamp.
type Event struct {
	Type  uint16
	Code  uint16
	Value int32
}

// Syn is the SYN_REPORT terminator.
var Syn = Event{Type: EvSyn, Code: SynReport}

func Key(code uint16, value int32) Event { return Event{Type: EvKey, Code: code, Value: value} }
func Abs(code uint16, value int32) Event { return Event{Type: EvAbs, Code: code, Value: value} }

// Emitter accepts a batch of events, written in order.
type Emitter interface {
	Emit(events ...Event) error
}

// rawEvent mirrors struct input_event. The timeval is 8 bytes on 32-bit
// ARM and 16 on 64-bit targets, so the record is 16 or 24 bytes.
type rawEvent struct {
	Time  timeval
	Type  uint16
	Code  uint16
	Value int32
}

// EventSize is the platform's input_event record size.
var EventSize = binary.Size(rawEvent{})

// Encode appends the records for events to buf. The kernel stamps the
// time itself, so it is left zero.
func Encode(buf *bytes.Buffer, events ...Event) error {
	for _, ev := range events {
		raw := rawEvent{Type: ev.Type, Code: ev.Code, Value: ev.Value}
		if err := binary.Write(buf, binary.LittleEndian, &raw); err != nil {
			return err
		}
	}
	return nil
}

// Device writes events to an open evdev or uinput file.
type Device struct {
	mu   sync.Mutex
	w    io.WriteCloser
	name string
	buf  bytes.Buffer
}

// NewDevice wraps an already open writer, typically for tests.
func NewDevice(name string, w io.WriteCloser) *Device {
	return &Device{w: w, name: name}
}

// Open opens an existing evdev node for writing.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDeviceIO, path, err)
	}
	return &Device{w: f, name: path}, nil
}

// Name returns the device path or label.
func (d *Device) Name() string { return d.name }

// Emit writes all events with a single write call.
func (d *Device) Emit(events ...Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buf.Reset()
	if err := Encode(&d.buf, events...); err != nil {
		return fmt.Errorf("%w: encode: %v", ErrDeviceIO, err)
	}
	if _, err := d.w.Write(d.buf.Bytes()); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrDeviceIO, d.name, err)
	}
	return nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.w.Close()
}

// Reader decodes input_event records from a stream.
type Reader struct {
	r io.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next blocks until a full record is available. It returns io.EOF when the
// stream ends on a record boundary.
func (r *Reader) Next() (Event, error) {
	var raw rawEvent
	if err := binary.Read(r.r, binary.LittleEndian, &raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Event{}, io.EOF
		}
		return Event{}, fmt.Errorf("%w: read: %v", ErrDeviceIO, err)
	}
	return Event{Type: raw.Type, Code: raw.Code, Value: raw.Value}, nil
}
