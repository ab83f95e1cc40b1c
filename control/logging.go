// control/logging.go
// Author: momentics <momentics@gmail.com>
//
// zerolog construction from LoggingConfig.

package control

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// NewLogger builds a logger from cfg. The returned closer releases the
// output file, if any; it is never nil.
func NewLogger(cfg LoggingConfig) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("logging.level: %w", err)
	}

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
		fd     uintptr
		isFile bool
	)
	switch cfg.Output {
	case "stdout", "":
		out, fd, isFile = os.Stdout, os.Stdout.Fd(), true
	case "stderr":
		out, fd, isFile = os.Stderr, os.Stderr.Fd(), true
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("logging.output: %w", err)
		}
		out, closer = f, f
	}

	console := cfg.Format == "console" ||
		(cfg.Format == "auto" && isFile && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)))
	if console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
