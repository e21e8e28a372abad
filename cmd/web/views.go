package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/myrjola/holocron/internal/catalog"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/listing"
	"github.com/myrjola/holocron/internal/logging"
	"github.com/myrjola/holocron/internal/models"
)

// view is a listing page kept alive between htmx requests. It hides the entity type of the listing.Coordinator it
// wraps so that views of every category fit into one registry.
type view interface {
	Category() catalog.Category
	Search(term string)
	SetFilter(key, value string)
	NextPage()
	PrevPage()
	// Settle waits for the pending search and the latest request and returns what to render.
	Settle(ctx context.Context) (listingState, error)
	Close()
}

type card struct {
	Title   string
	Href    string
	Excerpt string
	Fields  []models.Field
}

type listingState struct {
	Query      listing.Query
	Cards      []card
	Page       int
	TotalPages int
	Total      int
	Err        string
	HasPrev    bool
	HasNext    bool
}

type listingView[T models.Summary] struct {
	*listing.Coordinator[T]
	category catalog.Category
	card     func(T) card
}

func (v listingView[T]) Category() catalog.Category {
	return v.category
}

func (v listingView[T]) Settle(ctx context.Context) (listingState, error) {
	s, err := v.Wait(ctx)
	cards := make([]card, 0, len(s.Items))
	for _, item := range s.Items {
		cards = append(cards, v.card(item))
	}
	return listingState{
		Query:      s.Query(),
		Cards:      cards,
		Page:       s.Page,
		TotalPages: s.TotalPages,
		Total:      s.Total,
		Err:        s.Err,
		HasPrev:    s.HasPrev(),
		HasNext:    s.HasNext(),
	}, err //nolint:wrapcheck // already wrapped by the coordinator
}

var errUnknownKind = errors.NewSentinel("unknown category kind")

// newView creates and mounts the listing of category starting from q.
func (app *application) newView(category catalog.Category, q listing.Query) (view, error) {
	switch category.Kind {
	case catalog.KindCharacters:
		return newListingView[models.Character](app, category, app.api.Characters.List, q, characterCard), nil
	case catalog.KindMovies:
		return newListingView[models.Film](app, category, app.api.Films.List, q, filmCard), nil
	case catalog.KindPlanets:
		return newListingView[models.Planet](app, category, app.api.Planets.List, q, summaryCard[models.Planet]), nil
	case catalog.KindStarships:
		return newListingView[models.Starship](app, category, app.api.Starships.List, q,
			summaryCard[models.Starship]), nil
	default:
		return nil, errors.Wrap(errUnknownKind, "new view", slog.String("kind", string(category.Kind)))
	}
}

func newListingView[T models.Summary](
	app *application,
	category catalog.Category,
	fetch listing.Fetcher[T],
	q listing.Query,
	toCard func(T) card,
) view {
	ctx := logging.WithAttrs(app.ctx, slog.String("kind", string(category.Kind)))
	c := listing.New[T](ctx, fetch, listing.WithQuery[T](q), listing.WithLogger[T](app.logger))
	c.Mount()
	return listingView[T]{Coordinator: c, category: category, card: toCard}
}

func summaryCard[T models.Summary](item T) card {
	return card{Title: item.DisplayName(), Href: "", Excerpt: "", Fields: item.Fields()}
}

func characterCard(c models.Character) card {
	return card{
		Title:   c.Name,
		Href:    "/characters/" + strconv.Itoa(c.EntityID()),
		Excerpt: "",
		Fields:  c.Fields(),
	}
}

func filmCard(f models.Film) card {
	return card{Title: f.DisplayName(), Href: "", Excerpt: f.Excerpt(), Fields: f.Fields()}
}
