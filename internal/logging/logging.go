// Package logging configures the apex/log logger shared by the heroes
// commands and the API server.
package logging

import (
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// Supported handler formats.
const (
	FormatCLI  = "cli"
	FormatText = "text"
	FormatJSON = "json"
)

// New builds a logger writing to w in the given format at the given level.
// An empty level means "info" and an empty format means "cli".
func New(w io.Writer, format, level string) (*log.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var h log.Handler
	switch format {
	case "", FormatCLI:
		h = cli.New(w)
	case FormatText:
		h = text.New(w)
	case FormatJSON:
		h = json.New(w)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return &log.Logger{Handler: h, Level: lvl}, nil
}

// Setup builds a logger like New and installs it as the apex/log default.
func Setup(w io.Writer, format, level string) (*log.Logger, error) {
	l, err := New(w, format, level)
	if err != nil {
		return nil, err
	}
	log.Log = l
	return l, nil
}
