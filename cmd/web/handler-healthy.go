package main

import (
	"encoding/json"
	"net/http"
)

type health struct {
	Status string `json:"status"`
	Views  int    `json:"views"`
	Chats  int    `json:"chats"`
}

// healthy responds with a JSON object indicating that the server is healthy together with the number of live
// listing views and chat sessions.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(health{Status: "ok", Views: app.views.Len(), Chats: app.chats.Len()})
}
