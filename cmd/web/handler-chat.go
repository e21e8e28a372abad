package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/myrjola/holocron/internal/chat"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/logging"
	"github.com/myrjola/holocron/internal/models"
)

type turnTemplateData struct {
	ChatID    string
	Character string
	Message   models.ChatMessage
}

type replyTemplateData struct {
	Character string
	Message   models.ChatMessage
	Banner    string
}

func turnKey(chatID uuid.UUID, turnID int64) string {
	return fmt.Sprintf("%s/%d", chatID, turnID)
}

// lookupChat resolves the chat session of the request. It responds itself and returns false when there's none.
func (app *application) lookupChat(w http.ResponseWriter, r *http.Request) (uuid.UUID, *chat.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil || !app.owns(r.Context(), chatsSessionKey, id) {
		app.notFound(w, r)
		return uuid.Nil, nil, false
	}
	s, ok := app.chats.Get(id)
	if !ok {
		app.disown(r.Context(), chatsSessionKey, id)
		app.reloadPage(w, r)
		return uuid.Nil, nil, false
	}
	return id, s, true
}

// chatMessage appends the user message right away and responds with it together with a placeholder that fetches
// the reply from chatTurn.
func (app *application) chatMessage(w http.ResponseWriter, r *http.Request) {
	id, s, ok := app.lookupChat(w, r)
	if !ok {
		return
	}
	turn, err := s.Begin(r.PostFormValue("message"))
	switch {
	case errors.Is(err, chat.ErrBlankMessage):
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, chat.ErrTurnInFlight):
		app.clientError(w, r, http.StatusConflict)
		return
	case err != nil:
		app.serverError(w, r, errors.Wrap(err, "begin turn"))
		return
	}

	key := turnKey(id, turn.ID)
	replies := make(chan models.ChatMessage, 1)
	app.replies.Publish(key, replies)
	go app.completeTurn(s, turn, key, replies)

	var msg models.ChatMessage
	for _, m := range s.Snapshot().Messages {
		if m.ID == turn.ID {
			msg = m
		}
	}
	app.renderFragment(w, r, http.StatusOK, "character", "turn", turnTemplateData{
		ChatID:    id.String(),
		Character: s.Character().Name,
		Message:   msg,
	})
}

// completeTurn runs the backend call outside the request so that it finishes even when the browser reconnects.
func (app *application) completeTurn(s *chat.Session, turn chat.Turn, key string, replies chan<- models.ChatMessage) {
	defer app.replies.Unpublish(key)
	defer close(replies)

	ctx, cancel := context.WithTimeout(logging.WithAttrs(app.ctx, slog.String("turn", key)), app.chatTimeout)
	defer cancel()
	reply, err := s.Complete(ctx, turn)
	if errors.Is(err, chat.ErrClosed) || errors.Is(err, chat.ErrUnknownTurn) {
		return
	}
	// Failed turns still answer with the fallback reply.
	replies <- reply
}

// chatTurn responds with the reply to a turn once it's there.
func (app *application) chatTurn(w http.ResponseWriter, r *http.Request) {
	id, s, ok := app.lookupChat(w, r)
	if !ok {
		return
	}
	turnID, err := strconv.ParseInt(r.PathValue("turn"), 10, 64)
	if err != nil {
		app.notFound(w, r)
		return
	}

	var reply models.ChatMessage
	if reply, ok = app.awaitReply(r.Context(), s, turnKey(id, turnID), turnID); !ok {
		if r.Context().Err() == nil {
			app.notFound(w, r)
		}
		return
	}
	app.renderFragment(w, r, http.StatusOK, "character", "reply", replyTemplateData{
		Character: s.Character().Name,
		Message:   reply,
		Banner:    s.Snapshot().Banner,
	})
}

// awaitReply takes the reply from the producer when this is the first request for it. Later requests wait until
// the producer is done and read the reply from the session instead.
func (app *application) awaitReply(
	ctx context.Context,
	s *chat.Session,
	key string,
	turnID int64,
) (models.ChatMessage, bool) {
	select {
	case c, ok := <-app.replies.Subscribe(key):
		if ok {
			select {
			case msg, received := <-c:
				if received {
					return msg, true
				}
			case <-ctx.Done():
				return models.ChatMessage{}, false
			}
		}
	case <-ctx.Done():
		return models.ChatMessage{}, false
	}
	return s.Reply(turnID)
}

// chatClose ends the chat session when the browser leaves the page.
func (app *application) chatClose(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil || !app.owns(r.Context(), chatsSessionKey, id) {
		app.notFound(w, r)
		return
	}
	app.chats.Remove(id)
	app.disown(r.Context(), chatsSessionKey, id)
	w.WriteHeader(http.StatusNoContent)
}
