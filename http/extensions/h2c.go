package extensions

import (
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// H2C serves prior-knowledge and upgraded HTTP/2 cleartext next to HTTP/1.1.
func H2C(h http.Handler) http.Handler {
	return h2c.NewHandler(h, &http2.Server{})
}
