// Package logging configures the zerolog logger shared by the CLI and the
// converter.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New builds a logger writing to w. Unknown levels fall back to warn.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}

	var zl zerolog.Logger
	switch strings.ToLower(format) {
	case "", FormatConsole:
		zl = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: true})
	case FormatJSON:
		zl = zerolog.New(w)
	default:
		return zerolog.Nop(), fmt.Errorf("log format must be %s or %s (got: %s)", FormatConsole, FormatJSON, format)
	}

	return zl.Level(lvl).With().Timestamp().Logger(), nil
}

// Init installs a logger built by New as the global zerolog logger.
func Init(w io.Writer, level, format string) (zerolog.Logger, error) {
	zl, err := New(w, level, format)
	if err != nil {
		return zl, err
	}
	log.Logger = zl
	return zl, nil
}
