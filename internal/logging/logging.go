// Package logging builds the logr.Logger used across corrosim.
package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/go-logr/logr"
)

// Verbosity levels for logger.V.
const (
	DEBUG = 1
	TRACE = 2
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w in format. verbosity enables V(n)
// output for every n <= verbosity.
func New(w io.Writer, format string, verbosity int) (logr.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.Level(-verbosity)}
	var h slog.Handler
	switch format {
	case "", FormatText:
		h = slog.NewTextHandler(w, opts)
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	default:
		return logr.Discard(), fmt.Errorf("unknown log format %q", format)
	}
	return logr.FromSlogHandler(h), nil
}
