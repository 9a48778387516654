package extensions

import (
	"bufio"
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Middleware wraps a handler. It has the same shape as mux.MiddlewareFunc.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// LoggingMiddleware attaches logger to the request context and writes one
// access log line per request. At debug level the request head is dumped too.
// The client field comes from forwarding headers only when trustForwarded is
// set, otherwise it is the connection address.
func LoggingMiddleware(logger zerolog.Logger, trustForwarded bool) Middleware {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Str("proto", r.Proto).
			Str("remote", r.RemoteAddr).
			Str("client", clientAddr(r, trustForwarded)).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})
	attach := hlog.NewHandler(logger)

	return func(next http.Handler) http.Handler {
		dump := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if e := hlog.FromRequest(r).Debug(); e.Enabled() {
				e.Msgf("< Received HTTP Request: %s", FormatRequest(r))
			}
			next.ServeHTTP(w, r)
		})
		return attach(access(dump))
	}
}

func FormatRequest(r *http.Request) string {
	var buf bytes.Buffer
	writer := bufio.NewWriter(&buf)

	fmt.Fprintf(writer, "\n%s %s %s\r\n", r.Method, r.URL.RequestURI(), r.Proto)
	r.Header.Write(writer)

	if r.RemoteAddr != "" {
		fmt.Fprintf(writer, "Remote-Addr: %s\r\n", r.RemoteAddr)
	}

	writer.Flush()
	return buf.String()
}

func clientAddr(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		return ClientIP(r)
	}
	return r.RemoteAddr
}

// ClientIP prefers forwarding headers over the connection address.
// The headers are client controlled, only trust them behind a proxy that sets them.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
		return strings.TrimSpace(xRealIP)
	}

	return strings.TrimSpace(r.RemoteAddr)
}
