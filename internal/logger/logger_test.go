package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CustomWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:  slog.LevelInfo,
		Format: "json",
		Writer: &buf,
	})
	logger.Info("catalog loaded")

	assert.Contains(t, buf.String(), "catalog loaded")
	assert.Contains(t, buf.String(), "\"level\":\"INFO\"")
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{name: "production uses json", environment: "production", wantJSON: true},
		{name: "development uses pretty", environment: "development"},
		{name: "staging uses pretty", environment: "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf}).Info("test")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"test"`)
			} else {
				assert.Contains(t, buf.String(), "INF")
				assert.NotContains(t, buf.String(), `"msg"`)
			}
		})
	}
}

func TestNew_NoColor(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: slog.LevelInfo, Format: "pretty", NoColor: true, Writer: &buf}).Info("plain", "books", 3)

	assert.NotContains(t, buf.String(), "\033[")
	assert.Contains(t, buf.String(), "INF plain books=3")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bookverse.log")

	logger, closer, err := OpenFile(path, Config{Level: slog.LevelDebug})
	require.NoError(t, err)

	logger.Debug("written to file", "resource", "books")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DBG written to file resource=books")
	assert.NotContains(t, string(data), "\033[")
}

func TestOpenFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookverse.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := OpenFile(path, Config{Level: slog.LevelInfo})
		require.NoError(t, err)
		logger.Info(msg)
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DeBuG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // defaults to info
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	handler := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("fetch complete", "resource", "books", "count", 42, "query", "the hobbit")

	output := buf.String()
	assert.Contains(t, output, "fetch complete")
	assert.Contains(t, output, "resource=books")
	assert.Contains(t, output, "count=42")
	assert.Contains(t, output, `query="the hobbit"`)
}

func TestPrettyHandler_LevelFormatting(t *testing.T) {
	for level, want := range map[slog.Level]string{
		slog.LevelDebug: "DBG",
		slog.LevelInfo:  "INF",
		slog.LevelWarn:  "WRN",
		slog.LevelError: "ERR",
	} {
		t.Run(want, func(t *testing.T) {
			var buf bytes.Buffer
			slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
				Log(context.Background(), level, "test")

			assert.Contains(t, buf.String(), want)
		})
	}
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}).
		WithAttrs([]slog.Attr{slog.String("component", "gateway")})

	slog.New(handler).Info("request sent", "seq", 7)

	assert.Contains(t, buf.String(), "component=gateway")
	assert.Contains(t, buf.String(), "seq=7")
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.Same(t, handler, handler.WithGroup(""))

	slog.New(handler.WithGroup("cache")).Info("invalidated", "tag", "Books")

	assert.Contains(t, buf.String(), "cache.tag=Books")
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true})).
		Info("test message")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestFormatValue(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "test", formatValue(slog.StringValue("test")))
	assert.Equal(t, `"two words"`, formatValue(slog.StringValue("two words")))
	assert.Equal(t, now.Format(time.RFC3339), formatValue(slog.TimeValue(now)))
	assert.Equal(t, "300ms", formatValue(slog.DurationValue(300*time.Millisecond)))
	assert.Equal(t, "42", formatValue(slog.IntValue(42)))
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.WithError(errors.New("connection refused")).Warn("fetch failed")

	assert.Contains(t, buf.String(), `"error":"connection refused"`)
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.Component("dashboard").WithField("books", 3).Info("ready")

	assert.Contains(t, buf.String(), `"component":"dashboard"`)
	assert.Contains(t, buf.String(), `"books":3`)
}
