//go:build unix

package net

import (
	"golang.org/x/sys/unix"

	"github.com/pysugar/hello/errors"
)

// IsAddrInUse reports whether err was caused by the port being already bound.
func IsAddrInUse(err error) bool {
	return errors.Is(err, unix.EADDRINUSE)
}
