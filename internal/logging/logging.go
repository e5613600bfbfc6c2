// Package logging builds the zerolog logger used by the programs.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the level and an optional rotating log file.
type Config struct {
	Level string
	File  string

	// Rotation settings, used only when File is set. Zero values use the defaults below.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

// New returns a logger writing human-readable lines to console and, when
// cfg.File is set, JSON lines to a rotating file. The returned closer releases
// the file and is never nil.
func New(cfg Config, console io.Writer) (zerolog.Logger, io.Closer) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339},
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: orDefault(cfg.MaxBackups, defaultMaxBackups),
			MaxAge:     orDefault(cfg.MaxAgeDays, defaultMaxAgeDays),
			Compress:   cfg.Compress,
		}
		writers = append(writers, file)
		closer = file
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger, closer
}

// NewStderr is New writing the console output to os.Stderr.
func NewStderr(cfg Config) (zerolog.Logger, io.Closer) {
	return New(cfg, os.Stderr)
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
