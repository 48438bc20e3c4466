package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/connect2sanju/cricket-auction-system/internal/config"
)

var writer io.Writer = os.Stdout

// Init configures the global zerolog logger. With LOG_FILE set, output
// fans out to stdout and a size-limited log file, which is also what
// Writer() hands to the HTTP request logger.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	if cfg.File != "" {
		if fileWriter, err := newSizeLimitedWriter(cfg.File, cfg.MaxMB); err == nil {
			out = io.MultiWriter(out, fileWriter)
		}
	}
	writer = out

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(out).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
}

// Writer returns the destination Init configured, for wiring other
// log producers to the same sink.
func Writer() io.Writer {
	return writer
}
