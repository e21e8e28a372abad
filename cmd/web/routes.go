package main

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/myrjola/holocron/ui"
)

func (app *application) routes(requestTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(ui.Files, "static")
	if err != nil {
		panic(err) // the embedded directory always exists
	}
	mux.Handle("GET /static/", cacheForeverHeaders(http.StripPrefix("/static/", http.FileServerFS(static))))
	mux.HandleFunc("GET /api/healthy", app.healthy)

	session := alice.New(app.sessionManager.LoadAndSave, app.noSurf, commonContext)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	for _, category := range app.catalog.Categories {
		mux.Handle("GET "+category.Route, session.Then(app.listingPage(category)))
	}
	mux.Handle("POST /views/{id}/search", session.ThenFunc(app.viewSearch))
	mux.Handle("POST /views/{id}/filters", session.ThenFunc(app.viewFilter))
	mux.Handle("POST /views/{id}/next", session.ThenFunc(app.viewNext))
	mux.Handle("POST /views/{id}/prev", session.ThenFunc(app.viewPrev))
	mux.Handle("POST /views/{id}/close", session.ThenFunc(app.viewClose))

	mux.Handle("GET /characters/{id}", session.ThenFunc(app.characterPage))
	mux.Handle("GET /characters/{id}/panel", session.ThenFunc(app.characterPanel))
	mux.Handle("POST /chats/{id}/messages", session.ThenFunc(app.chatMessage))
	mux.Handle("GET /chats/{id}/turns/{turn}", session.ThenFunc(app.chatTurn))
	mux.Handle("POST /chats/{id}/close", session.ThenFunc(app.chatClose))

	common := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	return common.Then(timeoutHandler(mux, requestTimeout))
}
