//go:build linux

package input

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const (
	iocNone  = 0
	iocWrite = 1

	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits
)

func ioc(dir, typ, nr, size uintptr) uint {
	return uint((dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

var (
	uiDevCreate  = ioc(iocNone, 'U', 1, 0)
	uiDevDestroy = ioc(iocNone, 'U', 2, 0)
	uiSetEvBit   = ioc(iocWrite, 'U', 100, 4)
	uiSetKeyBit  = ioc(iocWrite, 'U', 101, 4)
)

const absCnt = 64

// uinputUserDev is the legacy struct uinput_user_dev setup record.
type uinputUserDev struct {
	Name         [80]byte
	Bustype      uint16
	Vendor       uint16
	Product      uint16
	Version      uint16
	FFEffectsMax uint32
	Absmax       [absCnt]int32
	Absmin       [absCnt]int32
	Absfuzz      [absCnt]int32
	Absflat      [absCnt]int32
}

// uinputDevice destroys the virtual device before closing its fd.
type uinputDevice struct {
	f *os.File
}

func (u *uinputDevice) Write(p []byte) (int, error) { return u.f.Write(p) }

func (u *uinputDevice) Close() error {
	_ = unix.IoctlSetInt(int(u.f.Fd()), uiDevDestroy, 0)
	return u.f.Close()
}

// CreateKeyboard registers a virtual keyboard through the uinput node at
// path, declaring every code in keys.
func CreateKeyboard(path, name string, keys []uint16) (*Device, error) {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDeviceIO, path, err)
	}
	fail := func(step string, err error) (*Device, error) {
		unix.Close(fd)
		return nil, fmt.Errorf("%w: uinput %s: %v", ErrDeviceIO, step, err)
	}

	for _, ev := range []uint16{EvKey, EvSyn} {
		if err := unix.IoctlSetInt(fd, uiSetEvBit, int(ev)); err != nil {
			return fail("set evbit", err)
		}
	}
	for _, k := range keys {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(k)); err != nil {
			return fail(fmt.Sprintf("set keybit %d", k), err)
		}
	}

	var dev uinputUserDev
	copy(dev.Name[:len(dev.Name)-1], name)
	dev.Bustype = 0x06 // BUS_VIRTUAL
	dev.Vendor = 0x1
	dev.Product = 0x1
	dev.Version = 1

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &dev); err != nil {
		return fail("encode setup", err)
	}
	if _, err := unix.Write(fd, buf.Bytes()); err != nil {
		return fail("write setup", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fail("create", err)
	}

	f := os.NewFile(uintptr(fd), path)
	return NewDevice(name, &uinputDevice{f: f}), nil
}
