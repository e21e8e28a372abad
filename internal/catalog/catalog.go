// Package catalog declares the browsable categories of the hub: their routes, texts and filter schemas.
package catalog

import (
	_ "embed"
	"log/slog"

	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Kind string

const (
	KindCharacters Kind = "characters"
	KindMovies     Kind = "movies"
	KindStarships  Kind = "starships"
	KindPlanets    Kind = "planets"
)

type Option struct {
	Value string `yaml:"value" validate:"required"`
	Label string `yaml:"label" validate:"required"`
}

// Filter is a select based filter. Selecting the empty value removes the filter.
type Filter struct {
	Key      string   `yaml:"key" validate:"required"`
	Label    string   `yaml:"label" validate:"required"`
	AllLabel string   `yaml:"allLabel" validate:"required"`
	Options  []Option `yaml:"options" validate:"required,min=1,dive"`
}

// Allows reports whether value is one of the options or empty.
func (f Filter) Allows(value string) bool {
	if value == "" {
		return true
	}
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

type Category struct {
	Kind              Kind     `yaml:"kind" validate:"required,oneof=characters movies starships planets"`
	Title             string   `yaml:"title" validate:"required"`
	Heading           string   `yaml:"heading" validate:"required"`
	Description       string   `yaml:"description" validate:"required"`
	Icon              string   `yaml:"icon" validate:"required"`
	Route             string   `yaml:"route" validate:"required,startswith=/"`
	Resource          string   `yaml:"resource" validate:"required,oneof=characters films planets starships"`
	Singular          string   `yaml:"singular" validate:"required"`
	Plural            string   `yaml:"plural" validate:"required"`
	SearchPlaceholder string   `yaml:"searchPlaceholder" validate:"required"`
	Filters           []Filter `yaml:"filters" validate:"dive"`
}

// Filter returns the filter declared with key.
func (c Category) Filter(key string) (Filter, bool) {
	for _, f := range c.Filters {
		if f.Key == key {
			return f, true
		}
	}
	return Filter{}, false
}

// FilterKeys lists the declared filter keys in declaration order.
func (c Category) FilterKeys() []string {
	keys := make([]string, 0, len(c.Filters))
	for _, f := range c.Filters {
		keys = append(keys, f.Key)
	}
	return keys
}

type Catalog struct {
	Title      string     `yaml:"title" validate:"required"`
	Welcome    string     `yaml:"welcome" validate:"required"`
	Tagline    string     `yaml:"tagline" validate:"required"`
	HomeIcon   string     `yaml:"homeIcon" validate:"required"`
	Categories []Category `yaml:"categories" validate:"required,min=1,dive"`
}

var ErrInvalidCatalog = errors.NewSentinel("invalid catalog")

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse decodes a catalog declaration and validates it.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(ErrInvalidCatalog, "decode yaml", slog.String("cause", err.Error()))
	}
	if err := validation.Struct(c); err != nil {
		return nil, errors.Wrap(errors.Join(ErrInvalidCatalog, err), "validate catalog")
	}

	kinds := make(map[Kind]struct{}, len(c.Categories))
	routes := make(map[string]struct{}, len(c.Categories))
	for _, category := range c.Categories {
		if _, ok := kinds[category.Kind]; ok {
			return nil, errors.Wrap(ErrInvalidCatalog, "duplicate kind", slog.String("kind", string(category.Kind)))
		}
		kinds[category.Kind] = struct{}{}
		if _, ok := routes[category.Route]; ok {
			return nil, errors.Wrap(ErrInvalidCatalog, "duplicate route", slog.String("route", category.Route))
		}
		routes[category.Route] = struct{}{}

		keys := make(map[string]struct{}, len(category.Filters))
		for _, f := range category.Filters {
			if _, ok := keys[f.Key]; ok || f.Key == "page" || f.Key == "search" || f.Key == "limit" {
				return nil, errors.Wrap(ErrInvalidCatalog, "reserved or duplicate filter key",
					slog.String("kind", string(category.Kind)), slog.String("key", f.Key))
			}
			keys[f.Key] = struct{}{}
		}
	}
	return &c, nil
}

// Category returns the category of kind.
func (c *Catalog) Category(kind Kind) (Category, bool) {
	for _, category := range c.Categories {
		if category.Kind == kind {
			return category, true
		}
	}
	return Category{}, false
}
