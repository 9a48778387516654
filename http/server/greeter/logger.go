package greeter

import (
	"log"

	"github.com/rs/zerolog"
)

// stdLogger routes net/http's internal errors through zerolog.
func stdLogger(l zerolog.Logger) *log.Logger {
	return log.New(l.With().Str("component", "http").Logger(), "", 0)
}
