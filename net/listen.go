package net

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/pires/go-proxyproto"

	"github.com/pysugar/hello/errors"
)

// ListenOptions tunes Listen. The zero value binds all interfaces without PROXY support.
type ListenOptions struct {
	// Host to bind, empty means all interfaces.
	Host string
	// ProxyProtocol accepts PROXY v1/v2 headers from an upstream load balancer.
	// Connections without a header are served as-is.
	ProxyProtocol bool
	// ProxyHeaderTimeout bounds the wait for a PROXY header. Zero means 3s.
	ProxyHeaderTimeout time.Duration
}

// Listen binds a TCP listener on the given port. Bind failures are returned
// as ErrListen with the OS error as cause, so IsAddrInUse still works.
func Listen(ctx context.Context, port Port, opts ListenOptions) (net.Listener, error) {
	var lc net.ListenConfig
	lis, err := lc.Listen(ctx, "tcp", net.JoinHostPort(opts.Host, port.String()))
	if err != nil {
		return nil, errors.Single(errors.ErrListen, err)
	}

	if !opts.ProxyProtocol {
		return lis, nil
	}

	timeout := opts.ProxyHeaderTimeout
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	return &proxyproto.Listener{
		Listener:          lis,
		ReadHeaderTimeout: timeout,
		Policy: func(upstream net.Addr) (proxyproto.Policy, error) {
			return proxyproto.USE, nil
		},
	}, nil
}

// BoundPort returns the TCP port of a listener address, or 0 if it has none.
func BoundPort(addr net.Addr) Port {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return Port(a.Port)
	case nil:
		return 0
	}
	_, p, err := net.SplitHostPort(addr.String())
	if err != nil {
		return 0
	}
	v, err := strconv.ParseUint(p, 10, 16)
	if err != nil {
		return 0
	}
	return Port(v)
}
