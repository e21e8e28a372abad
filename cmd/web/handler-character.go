package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/holocron/internal/chat"
	"github.com/myrjola/holocron/internal/detail"
	"github.com/myrjola/holocron/internal/logging"
	"github.com/myrjola/holocron/internal/models"
)

type characterTemplateData struct {
	baseTemplateData
	Result detail.Result[models.Character]
	Fields []models.Field
	ChatID string
	Chat   chat.State
}

func (d characterTemplateData) Loading() bool  { return d.Result.Status == detail.StatusLoading }
func (d characterTemplateData) Failed() bool   { return d.Result.Status == detail.StatusError }
func (d characterTemplateData) NotFound() bool { return d.Result.Status == detail.StatusNotFound }

// characterPage renders the page shell right away. The panel with the character and the chat is loaded by htmx
// from characterPanel while the shell shows the loading placeholder.
func (app *application) characterPage(w http.ResponseWriter, r *http.Request) {
	data := characterTemplateData{
		baseTemplateData: app.newBaseTemplateData(r, "Character"),
		Result:           detail.Loading[models.Character](),
		Fields:           nil,
		ChatID:           "",
		Chat:             chat.State{},
	}
	status := http.StatusOK
	if id, ok := detail.ParseID(r.PathValue("id")); ok {
		data.Result.ID = id
	} else {
		data.Result = detail.Result[models.Character]{
			Status: detail.StatusError,
			ID:     0,
			Item:   models.Character{},
			Err:    detail.InvalidIdentifierMessage,
		}
		status = http.StatusBadRequest
	}
	app.render(w, r, status, "character", data)
}

// characterPanel fetches the character and starts a chat session with it.
func (app *application) characterPanel(w http.ResponseWriter, r *http.Request) {
	result := detail.Load[models.Character](r.Context(), app.api.Characters.Get, r.PathValue("id"))
	data := characterTemplateData{
		baseTemplateData: baseTemplateData{}, //nolint:exhaustruct // fragments don't render the layout
		Result:           result,
		Fields:           nil,
		ChatID:           "",
		Chat:             chat.State{},
	}

	if result.Status == detail.StatusReady {
		ctx := logging.WithAttrs(app.ctx, slog.Int("character_id", result.ID))
		session := chat.New(ctx, result.Item, app.chatBackend, chat.WithLogger(app.logger))
		id := app.chats.Add(session)
		app.own(r.Context(), chatsSessionKey, id)
		data.Fields = result.Item.DetailFields()
		data.ChatID = id.String()
		data.Chat = session.Snapshot()
	}

	app.renderFragment(w, r, http.StatusOK, "character", "panel", data)
}
