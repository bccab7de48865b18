// Package logging provides the diagnostics facade used by the conversion
// handler and its hosts. Messages go to the console (the devtools console
// when running as WebAssembly).
package logging

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(console()).With().Timestamp().Logger()
)

// console writes human readable lines to stdout. The browser console does
// not interpret ANSI colors.
func console() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly, NoColor: runtime.GOOS == "js"}
}

// InitLogger resets the console logger with the given minimum level.
// Unknown or empty level names select info.
func InitLogger(level string) {
	l := zerolog.New(console()).With().Timestamp().Logger()

	mu.Lock()
	logger = l.Level(parseLevel(level))
	mu.Unlock()
}

// SetLoggerForTest replaces the logger, typically with one writing to a buffer.
func SetLoggerForTest(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs at debug level; keyvals are alternating keys and values.
func Debug(msg string, keyvals ...interface{}) {
	l := current()
	withFields(l.Debug(), keyvals).Msg(msg)
}

// Info logs at info level; keyvals are alternating keys and values.
func Info(msg string, keyvals ...interface{}) {
	l := current()
	withFields(l.Info(), keyvals).Msg(msg)
}

// Warn logs at warn level; keyvals are alternating keys and values.
func Warn(msg string, keyvals ...interface{}) {
	l := current()
	withFields(l.Warn(), keyvals).Msg(msg)
}

// Error logs at error level; keyvals are alternating keys and values.
func Error(msg string, keyvals ...interface{}) {
	l := current()
	withFields(l.Error(), keyvals).Msg(msg)
}

func withFields(e *zerolog.Event, keyvals []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		switch v := keyvals[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		default:
			e = e.Interface(key, v)
		}
	}
	if len(keyvals)%2 == 1 {
		e = e.Interface("extra", keyvals[len(keyvals)-1])
	}
	return e
}
