package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"dialtimer/internal/config"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds the application logger. Logs go to cfg.File through a console
// writer without colors; with no file a disabled logger is returned. The
// closer releases the file.
func New(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	if cfg.File == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewWithWriter(f, level), f, nil
}

// NewWithWriter builds a logger writing human readable lines to w.
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: timeFormat,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
