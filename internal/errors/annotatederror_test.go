package errors

import (
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnnotatedError(t *testing.T) {
	err := New("test error", slog.String("id", "123"))
	require.Equal(t, "test error", err.Error())

	// Assert that wrapping sentinel errors work as expected.
	sentinel := NewSentinel("sentinel")
	require.NotErrorIs(t, err, NewSentinel("sentinel"))
	wrapped := Wrap(sentinel, "fetch character", slog.Int("character_id", 2))
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "fetch character: sentinel", wrapped.Error())

	// Ensure log values are coming through.
	var annotated AnnotatedError
	require.True(t, As(err, &annotated))
	group := annotated.LogValue().Group()
	require.Contains(t, group, slog.String("id", "123"))

	// Assert there's a valid source
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	require.GreaterOrEqual(t, sourceIdx, 0)
	require.Contains(t, group[sourceIdx].Value.String(), "annotatederror_test.go")
}

func TestWrapNil(t *testing.T) {
	require.NoError(t, Wrap(nil, "nothing to wrap"))
}

func TestSlogError(t *testing.T) {
	inner := New("inner", slog.String("a", "1"))
	outer := Wrap(inner, "outer", slog.String("b", "2"))

	attr := SlogError(outer)
	require.Equal(t, "error", attr.Key)
	group := attr.Value.Group()
	require.Contains(t, group, slog.String("msg", "outer: inner"))
	require.Contains(t, group, slog.String("a", "1"))
	require.Contains(t, group, slog.String("b", "2"))

	plain := SlogError(NewSentinel("plain"))
	require.Equal(t, "plain", plain.Value.String())
}
