package vizitka

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogOptions describes how NewLogger builds the server logger.
type LogOptions struct {
	Level  string    // zerolog level name; empty means info
	Format string    // "console" or "json"; empty means console
	Writer io.Writer // defaults to os.Stderr
}

// NewLogger creates the zerolog logger the server and its request log use.
func NewLogger(opts LogOptions) (zerolog.Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var output io.Writer
	switch strings.ToLower(opts.Format) {
	case "", "console":
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	case "json":
		output = writer
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", opts.Format)
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}
