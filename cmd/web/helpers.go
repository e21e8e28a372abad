package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/holocron/internal/errors"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status), slog.Any("formdata", r.PostForm))
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound)
}

// isHTMX reports whether the request was issued by htmx, i.e. it expects a fragment instead of a full page.
func (app *application) isHTMX(w http.ResponseWriter, r *http.Request) bool {
	return app.htmx.NewHandler(w, r).IsHxRequest()
}
