package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/myrjola/holocron/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, slog.LevelDebug).With(slog.String("source", "test"))

	ctx := logging.WithAttrs(context.Background(), slog.String("view_id", "abc"))
	child := logging.WithAttrs(ctx, slog.Int("seq", 3))
	logger.InfoContext(child, "applied response")

	out := buf.String()
	require.Contains(t, out, "view_id=abc")
	require.Contains(t, out, "seq=3")
	require.Contains(t, out, "source=test")

	buf.Reset()
	logger.InfoContext(ctx, "parent only")
	require.NotContains(t, buf.String(), "seq=3")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "bogus", want: slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}
