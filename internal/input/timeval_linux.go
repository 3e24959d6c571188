//go:build linux

package input

import "golang.org/x/sys/unix"

type timeval = unix.Timeval
