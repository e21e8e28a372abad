package listing

import (
	"log/slog"
	"net/url"
	"strconv"

	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/validation"
)

// Query is the URL representation of a listing so that reloading a page restores the same view.
type Query struct {
	Page    int               `query:"page" validate:"min=1"`
	Search  string            `query:"search" validate:"max=100"`
	Filters map[string]string `validate:"dive,keys,required,max=64,endkeys,max=100"`
}

var ErrInvalidQuery = errors.NewSentinel("invalid listing query")

// ParseQuery reads a Query from URL values. Only the keys listed in filterKeys are treated as filters, unknown keys
// are ignored. A missing page means the first page.
func ParseQuery(values url.Values, filterKeys []string) (Query, error) {
	q := Query{Page: 1, Search: values.Get("search"), Filters: map[string]string{}}
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return Query{}, errors.Wrap(ErrInvalidQuery, "parse page", slog.String("page", raw))
		}
		q.Page = page
	}
	for _, key := range filterKeys {
		if value := values.Get(key); value != "" {
			q.Filters[key] = value
		}
	}
	if err := validation.Struct(q); err != nil {
		return Query{}, errors.Wrap(errors.Join(ErrInvalidQuery, err), "validate query")
	}
	return q, nil
}

// Values encodes q. The first page, an empty search and empty filters are left out.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for key, value := range q.Filters {
		if value != "" {
			v.Set(key, value)
		}
	}
	return v
}

// URL returns path with q as its query string.
func (q Query) URL(path string) string {
	if encoded := q.Values().Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}
