// Package simlog adapts zerolog for matrixsim: every record the engine or
// user code emits is tagged with the current virtual time and ProcessId,
// matching the "[t=<jiffies> p=<pid>]" prefix spec.md §6 documents for the
// engine's debug macro.
package simlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/jihwankim/matrixsim/pkg/sim"
)

// Level selects which records are emitted: "info" is high-level status and
// progress milestones, "debug" is every dispatched event plus anything
// user code logs through the ambient Debug/Info functions below.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the on-the-wire log encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config configures a Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger wraps a zerolog.Logger and implements sim.Logger, so it can be
// installed on a Builder via WithLogger to capture the engine's own
// dispatch trace.
type Logger struct {
	zl zerolog.Logger
}

var _ sim.Logger = (*Logger)(nil)

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	var out io.Writer = cfg.Output
	if cfg.Format == FormatText {
		out = zerolog.ConsoleWriter{Out: cfg.Output, NoColor: false}
	}
	zl := zerolog.New(out).With().Timestamp().Logger()
	switch cfg.Level {
	case LevelDebug:
		zl = zl.Level(zerolog.DebugLevel)
	case LevelWarn:
		zl = zl.Level(zerolog.WarnLevel)
	case LevelError:
		zl = zl.Level(zerolog.ErrorLevel)
	default:
		zl = zl.Level(zerolog.InfoLevel)
	}
	return &Logger{zl: zl}
}

// tag returns a child logger carrying the current [t=.. p=..] fields. t is
// always set (0 when no process is current); p is omitted when no process
// is current (e.g. before Run starts).
func (l *Logger) tag() zerolog.Logger {
	ctx := l.zl.With().Uint64("t", uint64(sim.CurrentClock()))
	if pid, ok := sim.CurrentRank(); ok {
		ctx = ctx.Int("p", int(pid))
	}
	return ctx.Logger()
}

// Debugf implements sim.Logger for the engine's own internal trace.
func (l *Logger) Debugf(format string, args ...any) {
	l.tag().Debug().Msgf(format, args...)
}

// Infof implements sim.Logger for the engine's own status messages.
func (l *Logger) Infof(format string, args ...any) {
	l.tag().Info().Msgf(format, args...)
}

// Debug is the ambient, context-aware free function user behaviors call
// from inside Start/OnMessage/OnTimer — it requires a current process
// exactly like send_to/now (spec.md §6).
func Debug(logger *Logger, msg string) {
	if _, ok := sim.CurrentRank(); !ok {
		panic("simlog: Debug called with no current process")
	}
	logger.tag().Debug().Msg(msg)
}

// Info is Debug's "info" counterpart, used for high-level status and
// progress milestones. It likewise requires a current process.
func Info(logger *Logger, msg string) {
	if _, ok := sim.CurrentRank(); !ok {
		panic("simlog: Info called with no current process")
	}
	logger.tag().Info().Msg(msg)
}
