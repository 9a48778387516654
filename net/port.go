package net

import (
	"strconv"

	"github.com/pysugar/hello/errors"
)

// Port represents a network port in TCP and UDP protocol.
type Port uint16

// PortFromInt converts an integer to a Port.
// It returns ErrInvalidPort when the value is out of range.
func PortFromInt(val int) (Port, error) {
	if val < 0 || val > 65535 {
		return Port(0), errors.Single(errors.ErrInvalidPort, errors.New(strconv.Itoa(val)))
	}
	return Port(val), nil
}

// String returns the string presentation of a Port.
func (p Port) String() string {
	return strconv.Itoa(int(p))
}
