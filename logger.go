package atom

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
	Level(zerolog.InfoLevel).
	With().
	Timestamp().
	Logger()

// SetLogger replaces the package logger. It must be called before the
// package is used from more than one goroutine.
func SetLogger(l zerolog.Logger) {
	logger = l
}
