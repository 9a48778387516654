package net_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pysugar/hello/errors"
	. "github.com/pysugar/hello/net"
)

func TestPortFromInt(t *testing.T) {
	cases := []struct {
		input int
		port  Port
		err   bool
	}{
		{input: 0, port: 0},
		{input: 3000, port: 3000},
		{input: 65535, port: 65535},
		{input: -1, err: true},
		{input: 65536, err: true},
	}
	for _, test := range cases {
		p, err := PortFromInt(test.input)
		if test.err {
			assert.True(t, errors.Is(err, errors.ErrInvalidPort), "input %d", test.input)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, test.port, p)
	}
}

func TestPortString(t *testing.T) {
	if s := Port(3000).String(); s != "3000" {
		t.Error("unexpected port string: ", s, " want 3000")
	}
}
