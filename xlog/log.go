package xlog

import (
	"fmt"
	"io"
	"log/slog"

	pkgerr "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

type Logger = zerolog.Logger
type Level = zerolog.Level
type LevelWriter = zerolog.LevelWriter
type Event = zerolog.Event

const (
	LevelTrace = zerolog.TraceLevel
	LevelDebug = zerolog.DebugLevel
	LevelInfo  = zerolog.InfoLevel
	LevelWarn  = zerolog.WarnLevel
	LevelError = zerolog.ErrorLevel
	LevelNone  = zerolog.NoLevel
)

var defaultOutput = StderrWriter()

type DefaultWriter struct{}

func (DefaultWriter) Write(p []byte) (n int, err error) { return defaultOutput.Write(p) }
func (DefaultWriter) WriteLevel(l Level, p []byte) (n int, err error) {
	return defaultOutput.WriteLevel(l, p)
}

// Not safe for concurrent use.
func SetDefaultOutput(w ...io.Writer) {
	defaultOutput = zerolog.MultiLevelWriter(w...)
}

func WrapStackError(err error) error {
	return pkgerr.WithStack(err)
}
func NewStackError(msg string) error {
	return pkgerr.New(msg)
}

// Replaces all defaults.
func init() {
	log.Logger = *NewDomain("atomix", DefaultWriter{})
	slog.SetDefault(ToSlog(&log.Logger))

	zerolog.LevelFieldName = "l"
	zerolog.TimestampFieldName = "t"
	zerolog.MessageFieldName = "msg"
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerolog.CallerFieldName = DomainFieldName
	zerolog.DefaultContextLogger = &log.Logger
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// SetLoggerLevel sets the global logger level.
func SetLoggerLevel(level Level) {
	zerolog.SetGlobalLevel(level)
}

// ErrStack starts an error level message with err and its stack trace
// attached. Values that are not errors are wrapped into one. A nil err yields
// an info level message.
//
// You must call Msg on the returned event in order to send the event.
func ErrStack(err any) *Event {
	if err == nil {
		return log.Logger.Info()
	}
	e, ok := err.(error)
	if !ok {
		e = NewStackError(fmt.Sprint(err))
	} else {
		e = WrapStackError(e)
	}
	return log.Logger.Error().Stack().Err(e)
}

func Debug() *Event { return log.Logger.Debug() }
