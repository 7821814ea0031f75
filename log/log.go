// Package log is a thin zerolog wrapper for this module (currently called
// only from mentalpoker.Setup), trimmed down from the teacher's log package: this is a
// computational library with no long-running process to babysit (§5), so
// the monitor hooks, JSON side-output, and panic-on-invalid-chars machinery
// of the teacher's version are dropped — a pure function library never
// needs a "panic if an ERROR was logged during this test run" safety net
// because it never logs at Error for expected outcomes (a failed
// verification is expected, not a bug).
package log

import (
	"cmp"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var (
	logger zerolog.Logger
	mu     sync.RWMutex
)

func init() {
	Init(cmp.Or(os.Getenv("LOG_LEVEL"), "error"))
}

// Init (re)configures the package logger. Level is one of Level{Debug,Info,
// Warn,Error}; output always goes to stderr, mirroring the teacher's
// default.
func Init(level string) {
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	switch level {
	case LevelDebug:
		l = l.Level(zerolog.DebugLevel)
	case LevelInfo:
		l = l.Level(zerolog.InfoLevel)
	case LevelWarn:
		l = l.Level(zerolog.WarnLevel)
	case LevelError:
		l = l.Level(zerolog.ErrorLevel)
	default:
		panic(fmt.Sprintf("log: invalid level %q", level))
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Logger returns the current package-wide logger.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func Debugf(template string, args ...any) { Logger().Debug().Msgf(template, args...) }
func Infof(template string, args ...any)  { Logger().Info().Msgf(template, args...) }
func Warnf(template string, args ...any)  { Logger().Warn().Msgf(template, args...) }
