package main

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

type sessionKey string

// The browser session remembers which listing views and chat sessions it created so that they can't be driven from
// another browser.
const (
	viewsSessionKey = sessionKey("views")
	chatsSessionKey = sessionKey("chats")
)

// maxOwned bounds how many ids a browser session remembers per key. The oldest are forgotten first.
const maxOwned = 32

func (app *application) owned(ctx context.Context, key sessionKey) []string {
	ids, _ := app.sessionManager.Get(ctx, string(key)).([]string)
	return ids
}

func (app *application) own(ctx context.Context, key sessionKey, id uuid.UUID) {
	ids := append(slices.Clone(app.owned(ctx, key)), id.String())
	if len(ids) > maxOwned {
		ids = ids[len(ids)-maxOwned:]
	}
	app.sessionManager.Put(ctx, string(key), ids)
}

func (app *application) owns(ctx context.Context, key sessionKey, id uuid.UUID) bool {
	return slices.Contains(app.owned(ctx, key), id.String())
}

func (app *application) disown(ctx context.Context, key sessionKey, id uuid.UUID) {
	ids := slices.DeleteFunc(slices.Clone(app.owned(ctx, key)), func(s string) bool { return s == id.String() })
	app.sessionManager.Put(ctx, string(key), ids)
}
