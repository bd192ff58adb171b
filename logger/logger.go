package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects where and how the bot logs.
type Options struct {
	Service string
	Debug   bool
	// JSON writes one JSON object per line instead of the console layout,
	// for hosts that ship stdout to a collector.
	JSON bool
	Out  io.Writer
}

// Init configures the global zerolog logger with the console layout on stdout.
func Init(serviceName string, debug bool) {
	Setup(Options{Service: serviceName, Debug: debug})
}

// Setup configures the global zerolog logger used by every package of the bot.
func Setup(opts Options) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "timestamp"
	zerolog.MessageFieldName = "message"

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if !opts.JSON {
		out = consoleWriter(out)
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", opts.Service).
		Logger()

	log.Debug().Bool("json", opts.JSON).Msg("Logger initialized")
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    out != os.Stdout,
		TimeFormat: time.TimeOnly,
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("%-5s", i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
	}
}

// Module returns a child logger tagged with the emitting component.
func Module(name string) zerolog.Logger {
	return log.Logger.With().Str("mod", name).Logger()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

// Fatal logs and exits with status 1.
func Fatal() *zerolog.Event {
	return log.Fatal()
}
