package logsvc

import (
	"io"
	"os"
	"time"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"github.com/rs/zerolog"

	"github.com/examally/examally/core"
	"github.com/examally/examally/core/user"
)

// RollbarLogger reports to Rollbar when enabled and always writes structured lines with zerolog.
type RollbarLogger struct {
	zl     zerolog.Logger
	report bool
}

var _ core.Logger = (*RollbarLogger)(nil)

// New returns a zerolog logger tagged with the component name, human readable in debug mode.
func New(component string, conf *core.Config) zerolog.Logger {
	var w io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if conf.Debug {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("component", component).Logger()
}

func NewRollbarLogger(zl zerolog.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{zl: zl}
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() *RollbarLogger {
	return &RollbarLogger{zl: zerolog.Nop()}
}

func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
	l.report = enabled
}

// expected fmt: msg | error, map[string]interface{}, user.User
func (l *RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var usrSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		// set logged in User
		if usr, ok := arg.(user.User); ok {
			if !usrSet { // only set one User
				rollbar.SetPerson(usr.ID, usr.Name, usr.Email)
				usrSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func (l *RollbarLogger) write(ev *zerolog.Event, msg string, args []interface{}) {
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			ev = ev.Err(a)
		case user.User:
			ev = ev.Str("user_id", a.ID)
		case map[string]interface{}:
			ev = ev.Fields(a)
		default:
			ev = ev.Interface("extra", a)
		}
	}
	ev.Msg(msg)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	if l.report {
		rollbar.Debug(l.prepare(msg, args)...)
	}
	l.write(l.zl.Debug(), msg, args)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	if l.report {
		rollbar.Info(l.prepare(msg, args)...)
	}
	l.write(l.zl.Info(), msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	if l.report {
		rollbar.Warning(l.prepare(msg, args)...)
	}
	l.write(l.zl.Warn(), msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	if l.report {
		rollbar.Error(l.prepare(msg, args)...)
	}
	l.write(l.zl.Error(), msg, args)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	if l.report {
		rollbar.Critical(l.prepare(msg, args)...)
		rollbar.Wait()
	}
	l.write(l.zl.WithLevel(zerolog.FatalLevel), msg, args)
	os.Exit(1)
}
