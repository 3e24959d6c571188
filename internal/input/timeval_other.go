//go:build !linux

package input

// timeval uses the 64-bit Linux layout so recorded streams decode the same
// on development machines.
type timeval struct {
	Sec  int64
	Usec int64
}
