package greeter

import (
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// Greeting is the body of GET /.
const Greeting = "Hello, World from this server"

// NewHandler serves Greeting on GET / only. Any other path is a 404 and any
// other method on / is a 405, both coming from http.ServeMux.
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", greet)
	return mux
}

func greet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(Greeting)); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Error writing response")
	}
}
