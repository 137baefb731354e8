// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Options selects where log output goes.
type Options struct {
	Level string
	// File receives JSON lines when set.
	File string
	// Console receives human readable output when File is empty. A nil
	// Console discards logs, which is what the dashboard needs while it owns
	// the terminal.
	Console io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup replaces log.Logger according to opts. The returned closer releases
// the log file, if one was opened.
func Setup(fs afero.Fs, opts Options) (io.Closer, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var (
		out    io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)

	switch {
	case opts.File != "":
		file, err := fs.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}

		out, closer = file, file
	case opts.Console != nil:
		out = zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.TimeOnly}
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()

	return closer, nil
}
