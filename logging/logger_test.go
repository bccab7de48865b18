package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// setupTestLogger configures a logger with a custom writer for tests
func setupTestLogger(output *bytes.Buffer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	SetLoggerForTest(zerolog.New(output).With().Timestamp().Logger().Level(lvl))
}

func TestInfoLogging(t *testing.T) {
	var buf bytes.Buffer
	setupTestLogger(&buf, "info")

	Info("image loaded", "width", 480, "ok", true)

	out := buf.String()
	assert.Contains(t, out, "image loaded")
	assert.Contains(t, out, `"width":480`)
	assert.Contains(t, out, `"ok":true`)
}

func TestErrorLoggingWithErrorValue(t *testing.T) {
	var buf bytes.Buffer
	setupTestLogger(&buf, "error")

	Error("decode failed", "error", errors.New("boom"))

	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	setupTestLogger(&buf, "warn")

	Info("hidden")
	Debug("hidden too")
	Warn("visible", "code", 7)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"code":7`)
}

func TestOddKeyvals(t *testing.T) {
	var buf bytes.Buffer
	setupTestLogger(&buf, "info")

	Info("odd", "k", "v", "dangling")

	assert.Contains(t, buf.String(), `"k":"v"`)
	assert.Contains(t, buf.String(), `"extra":"dangling"`)
}

func TestInitLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			InitLogger(tc.level)
			assert.Equal(t, tc.want, current().GetLevel())
		})
	}
}
