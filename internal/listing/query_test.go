package listing_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/myrjola/holocron/internal/listing"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	filterKeys := []string{"climate", "terrain"}
	tests := []struct {
		name    string
		raw     string
		want    listing.Query
		wantErr bool
	}{
		{
			name: "empty",
			raw:  "",
			want: listing.Query{Page: 1, Search: "", Filters: map[string]string{}},
		},
		{
			name: "everything",
			raw:  "page=3&search=hoth&climate=frozen&terrain=&unknown=1",
			want: listing.Query{Page: 3, Search: "hoth", Filters: map[string]string{"climate": "frozen"}},
		},
		{
			name:    "non-numeric page",
			raw:     "page=two",
			wantErr: true,
		},
		{
			name:    "page below one",
			raw:     "page=0",
			wantErr: true,
		},
		{
			name:    "search too long",
			raw:     "search=" + strings.Repeat("a", 101),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)
			got, err := listing.ParseQuery(values, filterKeys)
			if tt.wantErr {
				require.ErrorIs(t, err, listing.ErrInvalidQuery)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestQuery_URL(t *testing.T) {
	require.Equal(t, "/planets", listing.Query{Page: 1}.URL("/planets"))
	q := listing.Query{Page: 2, Search: "alder", Filters: map[string]string{"climate": "temperate", "terrain": ""}}
	require.Equal(t, "/planets?climate=temperate&page=2&search=alder", q.URL("/planets"))

	values, err := url.ParseQuery(strings.TrimPrefix(q.URL("/planets"), "/planets?"))
	require.NoError(t, err)
	back, err := listing.ParseQuery(values, []string{"climate", "terrain"})
	require.NoError(t, err)
	require.Equal(t, listing.Query{Page: 2, Search: "alder", Filters: map[string]string{"climate": "temperate"}}, back)
}
