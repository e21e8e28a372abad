package format_test

import (
	"testing"

	"github.com/myrjola/holocron/internal/format"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "200000", want: "200,000"},
		{in: "1000000000", want: "1,000,000,000"},
		{in: "42", want: "42"},
		{in: "unknown", want: "unknown"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, format.Number(tt.in))
		})
	}
}

func TestWithUnit(t *testing.T) {
	require.Equal(t, "12,500 km", format.WithUnit("12500", "km"))
	require.Equal(t, "unknown", format.WithUnit("unknown", "km"))
}

func TestCredits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "3500000", want: "$3,500,000"},
		{in: "1000", want: "$1,000"},
		{in: "unknown", want: "Unknown"},
		{in: "n/a", want: "n/a"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, format.Credits(tt.in))
		})
	}
}

func TestReleaseDate(t *testing.T) {
	require.Equal(t, "May 25, 1977", format.ReleaseDate("1977-05-25"))
	require.Equal(t, "sometime", format.ReleaseDate("sometime"))
}

func TestExcerpt(t *testing.T) {
	require.Equal(t, "short", format.Excerpt("short", 10))
	require.Equal(t, "It is a...", format.Excerpt("It is a period of civil war.", 7))
}

func TestCount(t *testing.T) {
	require.Equal(t, "1 film", format.Count(1, "film", "films"))
	require.Equal(t, "0 films", format.Count(0, "film", "films"))
	require.Equal(t, "1,200 residents", format.Count(1200, "resident", "residents"))
}
