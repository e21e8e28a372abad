package main

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/myrjola/holocron/internal/contexthelpers"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/ui"
)

type navItem struct {
	Title   string
	Icon    string
	Route   string
	Current bool
}

type baseTemplateData struct {
	SiteTitle string
	PageTitle string
	Nav       []navItem
}

func (app *application) newBaseTemplateData(r *http.Request, pageTitle string) baseTemplateData {
	currentPath := contexthelpers.CurrentPath(r.Context())
	nav := []navItem{{Title: "Home", Icon: app.catalog.HomeIcon, Route: "/", Current: currentPath == "/"}}
	for _, c := range app.catalog.Categories {
		nav = append(nav, navItem{
			Title:   c.Title,
			Icon:    c.Icon,
			Route:   c.Route,
			Current: currentPath == c.Route || strings.HasPrefix(currentPath, c.Route+"/"),
		})
	}
	return baseTemplateData{
		SiteTitle: app.catalog.Title,
		PageTitle: pageTitle,
		Nav:       nav,
	}
}

// pageTemplate returns a template for the given page name.
//
// pageName corresponds to directory inside ui/templates/pages folder. It has to include a template named "page".
// Fragments rendered for htmx requests are defined next to the page that embeds them.
func (app *application) pageTemplate(pageName string) (*template.Template, error) {
	patterns := []string{
		"templates/base.gohtml",
		fmt.Sprintf("templates/pages/%s/*.gohtml", pageName),
	}

	// We need to initialize the FuncMap before parsing the files. These will be overridden in the render function.
	t, err := template.New(pageName).Funcs(template.FuncMap{
		"nonce": func() string {
			panic("not implemented")
		},
		"csrf": func() string {
			panic("not implemented")
		},
		"csrfToken": func() string {
			panic("not implemented")
		},
	}).ParseFS(ui.Files, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "parse page templates", slog.String("page", pageName))
	}
	return t, nil
}

// render writes the full page wrapped in the base layout.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	app.execute(w, r, status, page, "base", data)
}

// renderFragment writes only the named template of page, as expected by htmx.
func (app *application) renderFragment(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	page string,
	name string,
	data any,
) {
	app.execute(w, r, status, page, name, data)
}

func (app *application) execute(w http.ResponseWriter, r *http.Request, status int, page, name string, data any) {
	var (
		err error
		t   *template.Template
	)

	if t, err = app.pageTemplate(page); err != nil {
		app.serverError(w, r, err)
		return
	}

	buf := new(bytes.Buffer)
	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrfToken := contexthelpers.CSRFToken(ctx)
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", template.HTMLEscapeString(csrfToken))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // we trust the csrf since it's not provided by user.
		},
		"csrfToken": func() string {
			return csrfToken
		},
	})
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template",
			slog.String("page", page), slog.String("template", name)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
