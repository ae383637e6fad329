package logging

import (
	"io"
	"os"
	"strings"

	"github.com/0x5457/codesearch/internal/config/configfx"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New builds a logger writing to w. format is "console" or "json"; an
// unknown level falls back to info.
func New(level, format string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// NewFromConfig logs to stderr so stdout stays free for the stdio MCP
// transport.
func NewFromConfig(cfg *configfx.Config) zerolog.Logger {
	return New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
}

// Module provides the application logger
var Module = fx.Module("logging",
	fx.Provide(NewFromConfig),
)
