package extensions_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/pysugar/hello/http/extensions"
)

var teapot = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
	w.Write([]byte("short and stout"))
})

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/kettle?x=1", nil)
	LoggingMiddleware(logger, true)(teapot).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "request", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/kettle?x=1", entry["url"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.EqualValues(t, len("short and stout"), entry["size"])
}

func TestLoggingMiddlewareDebugDump(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace", "abc")
	LoggingMiddleware(logger, true)(teapot).ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "X-Trace: abc")
}

func TestLoggingMiddlewareUntrustedForwarding(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.66")
	req.Header.Set("X-Real-IP", "203.0.113.67")
	LoggingMiddleware(logger, false)(teapot).ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "192.0.2.1:1234", entry["client"])
	assert.Equal(t, "192.0.2.1:1234", entry["remote"])
}

func TestLoggingMiddlewareTrustedForwarding(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.66, 10.0.0.1")
	LoggingMiddleware(logger, true)(teapot).ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "203.0.113.66", entry["client"])
	assert.Equal(t, "192.0.2.1:1234", entry["remote"])
}

func TestFormatRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/a/b", nil)
	req.Header.Set("Accept", "text/plain")
	out := FormatRequest(req)

	assert.Contains(t, out, "POST /a/b HTTP/1.1\r\n")
	assert.Contains(t, out, "Accept: text/plain\r\n")
	assert.Contains(t, out, "Remote-Addr: 192.0.2.1:1234\r\n")
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		header, value, want string
	}{
		{"X-Forwarded-For", "203.0.113.7, 10.0.0.1", "203.0.113.7"},
		{"X-Real-IP", " 203.0.113.8 ", "203.0.113.8"},
		{"", "", "192.0.2.1:1234"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if c.header != "" {
			req.Header.Set(c.header, c.value)
		}
		if got := ClientIP(req); got != c.want {
			t.Error("unexpected client ip: ", got, " want ", c.want)
		}
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(teapot, mark("outer"), mark("inner")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	h := m.Middleware()(teapot)
	for i := 0; i < 3; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.Requests.WithLabelValues("418", "get")))

	rec := httptest.NewRecorder()
	MetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello_http_requests_total")
}
