/*
Package logx provides the structured logging layer of the relay, built on zerolog.

The global logger is configured once at startup: human-readable console output at debug
level while developing, JSON at info level otherwise. Components derive child loggers
through Component so every line carries its origin.
*/
package logx

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls how the global logger is built.
type Options struct {
	// Development switches to the colored console writer and debug level.
	Development bool

	// Output overrides the destination. Defaults to stdout (stderr for the console writer).
	Output io.Writer
}

// InitGlobalLogger replaces the global zerolog logger according to opts.
func InitGlobalLogger(opts Options) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	out := opts.Output
	level := zerolog.InfoLevel

	if opts.Development {
		if out == nil {
			out = os.Stderr
		}
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	} else if out == nil {
		out = os.Stdout
	}

	log.Logger = zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Logger returns the global logger.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// Component returns a child of the global logger tagged with the component name.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// pairs drops a malformed key/value list rather than letting zerolog misalign it.
func pairs(level string, fields []any) []any {
	if len(fields)%2 == 0 {
		return fields
	}

	Logger().Warn().
		Int("fields_count", len(fields)).
		Str("log_level", level).
		Msg("logx call received an odd number of fields; fields ignored")
	return nil
}

// Debug logs msg at debug level with optional key/value fields.
func Debug(msg string, fields ...any) {
	Logger().Debug().Fields(pairs("debug", fields)).CallerSkipFrame(1).Msg(msg)
}

// Info logs msg at info level with optional key/value fields.
func Info(msg string, fields ...any) {
	Logger().Info().Fields(pairs("info", fields)).CallerSkipFrame(1).Msg(msg)
}

// Warn logs msg at warn level with optional key/value fields.
func Warn(msg string, fields ...any) {
	Logger().Warn().Fields(pairs("warn", fields)).CallerSkipFrame(1).Msg(msg)
}

// Error logs err and msg at error level with optional key/value fields.
func Error(err error, msg string, fields ...any) {
	Logger().Error().Err(err).Fields(pairs("error", fields)).CallerSkipFrame(1).Msg(msg)
}

// Fatal logs at fatal level and exits the process.
func Fatal(err error, msg string, fields ...any) {
	Logger().Fatal().Err(err).Fields(pairs("fatal", fields)).CallerSkipFrame(1).Msg(msg)
}
