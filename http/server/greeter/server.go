package greeter

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pysugar/hello/errors"
	"github.com/pysugar/hello/http/extensions"
	hnet "github.com/pysugar/hello/net"
	"github.com/pysugar/hello/net/ipaddr"
)

// DefaultPort is bound when Options.Port is zero and Ephemeral is not set.
const DefaultPort hnet.Port = 3000

// Options configures a Server. The zero value serves on DefaultPort.
type Options struct {
	// Port to bind. Zero means DefaultPort unless Ephemeral is set.
	Port hnet.Port
	// Ephemeral binds a kernel-chosen port, Addr reports which one.
	Ephemeral bool
	// Host to bind, empty means all interfaces.
	Host string
	// ProxyProtocol accepts PROXY headers, see net.ListenOptions.
	ProxyProtocol bool
	// H2C additionally accepts HTTP/2 over cleartext.
	H2C bool

	// Logger for diagnostics. Nil discards them.
	Logger *zerolog.Logger
	// Announce receives the startup line. Defaults to os.Stdout.
	Announce io.Writer
	// Middleware wraps the greeting handler, first is outermost.
	Middleware []extensions.Middleware
}

// Server moves from starting to listening once Listen succeeds and stays
// there until the process exits or Close is called.
type Server struct {
	port          hnet.Port
	host          string
	proxyProtocol bool
	announce      io.Writer
	logger        zerolog.Logger

	mu        sync.Mutex
	listener  net.Listener
	announced bool
	httpSrv   *http.Server
}

// New builds a server from opts. Nothing is bound until Listen or Bind.
func New(opts Options) *Server {
	s := &Server{
		port:          opts.Port,
		host:          opts.Host,
		proxyProtocol: opts.ProxyProtocol,
		announce:      opts.Announce,
		logger:        zerolog.Nop(),
	}
	if s.port == 0 && !opts.Ephemeral {
		s.port = DefaultPort
	}
	if s.announce == nil {
		s.announce = os.Stdout
	}
	if opts.Logger != nil {
		s.logger = *opts.Logger
	}

	mws := opts.Middleware
	if opts.H2C {
		mws = append([]extensions.Middleware{extensions.H2C}, mws...)
	}

	s.httpSrv = &http.Server{
		Handler:           extensions.Chain(NewHandler(), mws...),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          stdLogger(s.logger),
	}
	return s
}

// Listen binds the socket and writes the startup line once bound.
func (s *Server) Listen(ctx context.Context) error {
	if err := s.Bind(ctx); err != nil {
		return err
	}
	s.Announce()
	return nil
}

// Bind binds the socket without announcing it. Callers that bring up more
// listeners bind them all before calling Announce.
func (s *Server) Bind(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return errors.ErrAlreadyListening
	}

	lis, err := hnet.Listen(ctx, s.port, hnet.ListenOptions{
		Host:          s.host,
		ProxyProtocol: s.proxyProtocol,
	})
	if err != nil {
		s.logger.Error().Err(err).Stringer("port", s.port).Msg("Failed to listen")
		return err
	}
	s.listener = lis
	return nil
}

// Announce writes the startup line for the bound port. It does nothing
// before Bind and writes at most once.
func (s *Server) Announce() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil || s.announced {
		return
	}
	s.announced = true

	port := hnet.BoundPort(s.listener.Addr())
	if _, err := fmt.Fprintf(s.announce, "Server running on port : %s\n", port); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write startup line")
	}
	if e := s.logger.Debug(); e.Enabled() {
		e.Stringer("addr", s.listener.Addr()).
			Bool("proxy_protocol", s.proxyProtocol).
			Strs("urls", ipaddr.URLs(port.String())).
			Msg("Listening")
	}
}

// Serve blocks accepting connections on the bound socket.
func (s *Server) Serve() error {
	s.mu.Lock()
	lis := s.listener
	s.mu.Unlock()

	if lis == nil {
		return errors.ErrNotListening
	}

	if err := s.httpSrv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error().Err(err).Msg("Failed to serve")
		return err
	}
	return nil
}

// Addr is the bound address, nil before Bind.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close stops accepting and drops open connections.
func (s *Server) Close() error {
	err := s.httpSrv.Close()

	s.mu.Lock()
	lis := s.listener
	s.mu.Unlock()

	if lis != nil {
		if er := lis.Close(); er != nil && !errors.Is(er, net.ErrClosed) && err == nil {
			err = er
		}
	}
	return err
}

// Run listens and serves until Serve fails or ctx is done.
func Run(ctx context.Context, opts Options) error {
	s := New(opts)
	if err := s.Listen(ctx); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-done:
		}
	}()
	return s.Serve()
}
