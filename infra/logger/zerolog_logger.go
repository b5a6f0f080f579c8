package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// Options customises a ZerologLogger.
type Options struct {
	// Level is a zerolog level name ("debug", "info", ...). Empty means info.
	Level string
	// Out receives log lines. Nil means stderr so that stdout stays free for
	// command output.
	Out io.Writer
	// Console forces the human readable writer. It is also enabled when
	// APP_ENV=dev.
	Console bool
}

// NewZerologLogger creates a ZerologLogger using the APP_ENV environment variable
// to determine the output format. All logs include the provided component field.
func NewZerologLogger(component string) Logger {
	l, _ := NewZerologLoggerWithOptions(component, Options{})
	return l
}

// NewZerologLoggerWithOptions creates a ZerologLogger with an explicit level
// and destination. An unknown level returns an error together with an
// info-level logger.
func NewZerologLoggerWithOptions(component string, opts Options) (Logger, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	env := strings.ToLower(os.Getenv("APP_ENV"))
	if opts.Console || env == "dev" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level := zerolog.InfoLevel
	var err error
	if opts.Level != "" {
		level, err = zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			level = zerolog.InfoLevel
		}
	}
	z := zerolog.New(out).Level(level).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}, err
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
