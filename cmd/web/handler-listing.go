package main

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/myrjola/holocron/internal/catalog"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/listing"
)

type filterData struct {
	catalog.Filter
	Selected string
}

type listingTemplateData struct {
	baseTemplateData
	Category catalog.Category
	ViewID   string
	Filters  []filterData
	State    listingState
}

// parseListingQuery reads and validates a listing query. Filter values must be among the declared options.
func parseListingQuery(category catalog.Category, values url.Values) (listing.Query, error) {
	q, err := listing.ParseQuery(values, category.FilterKeys())
	if err != nil {
		return listing.Query{}, errors.Wrap(err, "parse listing query")
	}
	for key, value := range q.Filters {
		if f, _ := category.Filter(key); !f.Allows(value) {
			return listing.Query{}, errors.Wrap(listing.ErrInvalidQuery, "unknown filter option",
				slog.String("key", key), slog.String("value", value))
		}
	}
	return q, nil
}

func (app *application) listingPage(category catalog.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseListingQuery(category, r.URL.Query())
		if err != nil {
			app.logger.LogAttrs(r.Context(), slog.LevelDebug, "invalid listing query", errors.SlogError(err))
			app.clientError(w, r, http.StatusBadRequest)
			return
		}

		var v view
		if v, err = app.newView(category, q); err != nil {
			app.serverError(w, r, err)
			return
		}
		var state listingState
		if state, err = v.Settle(r.Context()); err != nil {
			// The client went away or the request timed out.
			v.Close()
			app.logger.LogAttrs(r.Context(), slog.LevelDebug, "listing not settled", errors.SlogError(err))
			return
		}

		id := app.views.Add(v)
		app.own(r.Context(), viewsSessionKey, id)

		filters := make([]filterData, 0, len(category.Filters))
		for _, f := range category.Filters {
			filters = append(filters, filterData{Filter: f, Selected: state.Query.Filters[f.Key]})
		}
		app.render(w, r, http.StatusOK, "listing", listingTemplateData{
			baseTemplateData: app.newBaseTemplateData(r, category.Title),
			Category:         category,
			ViewID:           id.String(),
			Filters:          filters,
			State:            state,
		})
	}
}

// lookupView resolves the view of the request. It responds itself and returns false when there's none.
func (app *application) lookupView(w http.ResponseWriter, r *http.Request) (uuid.UUID, view, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil || !app.owns(r.Context(), viewsSessionKey, id) {
		app.notFound(w, r)
		return uuid.Nil, nil, false
	}
	v, ok := app.views.Get(id)
	if !ok {
		// The view expired. Reloading the page creates a new one with the same query.
		app.disown(r.Context(), viewsSessionKey, id)
		app.reloadPage(w, r)
		return uuid.Nil, nil, false
	}
	return id, v, true
}

// reloadPage asks htmx to reload the page the request was issued from.
func (app *application) reloadPage(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if current, err := url.Parse(r.Header.Get("HX-Current-URL")); err == nil && current.Path != "" {
		target = current.RequestURI()
	}
	app.htmx.NewHandler(w, r).Redirect(target)
	w.WriteHeader(http.StatusNoContent)
}

// viewAction applies act to the view of the request and responds with the refreshed listing fragment. The browser
// location is updated so that a reload restores the listing.
func (app *application) viewAction(w http.ResponseWriter, r *http.Request, act func(view, listing.Query)) {
	id, v, ok := app.lookupView(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	category := v.Category()
	q, err := parseListingQuery(category, r.PostForm)
	if err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "invalid listing action", errors.SlogError(err))
		app.clientError(w, r, http.StatusUnprocessableEntity)
		return
	}

	act(v, q)

	var state listingState
	if state, err = v.Settle(r.Context()); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "listing not settled", errors.SlogError(err))
		return
	}
	app.htmx.NewHandler(w, r).PushURL(state.Query.URL(category.Route))
	app.renderFragment(w, r, http.StatusOK, "listing", "listing", listingTemplateData{
		baseTemplateData: baseTemplateData{}, //nolint:exhaustruct // fragments don't render the layout
		Category:         category,
		ViewID:           id.String(),
		Filters:          nil,
		State:            state,
	})
}

func (app *application) viewSearch(w http.ResponseWriter, r *http.Request) {
	app.viewAction(w, r, func(v view, q listing.Query) {
		v.Search(q.Search)
	})
}

func (app *application) viewFilter(w http.ResponseWriter, r *http.Request) {
	app.viewAction(w, r, func(v view, q listing.Query) {
		for _, key := range v.Category().FilterKeys() {
			if r.PostForm.Has(key) {
				v.SetFilter(key, q.Filters[key])
			}
		}
	})
}

func (app *application) viewNext(w http.ResponseWriter, r *http.Request) {
	app.viewAction(w, r, func(v view, _ listing.Query) {
		v.NextPage()
	})
}

func (app *application) viewPrev(w http.ResponseWriter, r *http.Request) {
	app.viewAction(w, r, func(v view, _ listing.Query) {
		v.PrevPage()
	})
}

// viewClose tears the view down when the browser leaves the page.
func (app *application) viewClose(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil || !app.owns(r.Context(), viewsSessionKey, id) {
		app.notFound(w, r)
		return
	}
	app.views.Remove(id)
	app.disown(r.Context(), viewsSessionKey, id)
	w.WriteHeader(http.StatusNoContent)
}
