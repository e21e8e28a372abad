package main

import (
	"net/http"

	"github.com/myrjola/holocron/internal/catalog"
)

type homeTemplateData struct {
	baseTemplateData
	Welcome    string
	Tagline    string
	Icon       string
	Categories []catalog.Category
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := homeTemplateData{
		baseTemplateData: app.newBaseTemplateData(r, "Home"),
		Welcome:          app.catalog.Welcome,
		Tagline:          app.catalog.Tagline,
		Icon:             app.catalog.HomeIcon,
		Categories:       app.catalog.Categories,
	}

	app.render(w, r, http.StatusOK, "home", data)
}
