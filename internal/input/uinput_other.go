//go:build !linux

package input

import "fmt"

// CreateKeyboard is only available on Linux.
func CreateKeyboard(path, name string, keys []uint16) (*Device, error) {
	return nil, fmt.Errorf("%w: uinput unsupported on this platform", ErrDeviceIO)
}
