package logger

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var base atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	base.Store(&l)
}

// Options configures the process logger.
type Options struct {
	Level   string // debug | info | warn | error
	Console bool   // human-readable output instead of JSON
	Service string
	Output  io.Writer
}

// Init replaces the process logger. Unknown levels fall back to info.
func Init(opts Options) {
	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	l := ctx.Logger().Level(level)
	base.Store(&l)
	l.Debug().Str("level", level.String()).Msg("logger initialized")
}

// L returns the process logger for callers that want the zerolog API.
func L() *zerolog.Logger {
	return base.Load()
}

func Debug(msg string, fields map[string]any) {
	L().Debug().Fields(fields).Msg(msg)
}

func Info(msg string, fields map[string]any) {
	L().Info().Fields(fields).Msg(msg)
}

func Warn(msg string, fields map[string]any) {
	L().Warn().Fields(fields).Msg(msg)
}

func Error(msg string, fields map[string]any) {
	L().Error().Fields(fields).Msg(msg)
}

func Fatal(msg string, fields map[string]any) {
	L().WithLevel(zerolog.FatalLevel).Fields(fields).Msg(msg)
	os.Exit(1)
}
