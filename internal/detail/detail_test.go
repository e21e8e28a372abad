package detail_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/myrjola/holocron/internal/detail"
	"github.com/myrjola/holocron/internal/models"
	"github.com/myrjola/holocron/internal/swapi"
	"github.com/myrjola/holocron/internal/swapitest"
	"github.com/myrjola/holocron/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   int
		wantOK bool
	}{
		{name: "integer", values: []string{"2"}, want: 2, wantOK: true},
		{name: "padded", values: []string{" 12 "}, want: 12, wantOK: true},
		{name: "missing", values: nil, wantOK: false},
		{name: "empty", values: []string{""}, wantOK: false},
		{name: "multi-valued", values: []string{"1", "2"}, wantOK: false},
		{name: "not a number", values: []string{"luke"}, wantOK: false},
		{name: "fraction", values: []string{"1.5"}, wantOK: false},
		{name: "zero", values: []string{"0"}, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detail.ParseID(tt.values...)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	api := swapitest.New(t)
	client, err := swapi.NewClient(swapi.Config{BaseURL: api.URL, Token: "", Timeout: time.Second},
		testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("ready", func(t *testing.T) {
		result := detail.Load[models.Character](ctx, client.Characters.Get, "2")
		require.Equal(t, detail.StatusReady, result.Status)
		require.Equal(t, 2, result.Item.EntityID())
		require.Equal(t, "C-3PO", result.Item.Name)
	})

	t.Run("invalid identifier makes no request", func(t *testing.T) {
		before := len(api.Requests())
		result := detail.Load[models.Character](ctx, client.Characters.Get)
		require.Equal(t, detail.StatusError, result.Status)
		require.Equal(t, "Invalid identifier", result.Err)
		require.Len(t, api.Requests(), before)
	})

	t.Run("not found", func(t *testing.T) {
		result := detail.Load[models.Character](ctx, client.Characters.Get, "404")
		require.Equal(t, detail.StatusNotFound, result.Status)
	})

	t.Run("server error", func(t *testing.T) {
		api.Fail("/characters/3", http.StatusInternalServerError, nil)
		t.Cleanup(func() { api.Recover("/characters/3") })
		result := detail.Load[models.Character](ctx, client.Characters.Get, "3")
		require.Equal(t, detail.StatusError, result.Status)
		require.Equal(t, "Failed to fetch character", result.Err)
	})
}

func TestLoading(t *testing.T) {
	result := detail.Loading[models.Character]()
	require.Equal(t, detail.StatusLoading, result.Status)
	require.Equal(t, "loading", result.Status.String())
}
