package ai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/myrjola/holocron/internal/ai"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/models"
	"github.com/myrjola/holocron/internal/swapitest"
	"github.com/myrjola/holocron/internal/testhelpers"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func luke() models.Character {
	return swapitest.Characters()[0]
}

func lookup(_ context.Context, id int) (models.Character, error) {
	for _, c := range swapitest.Characters() {
		if c.EntityID() == id {
			return c, nil
		}
	}
	return models.Character{}, errors.New("character not found")
}

func TestMessages(t *testing.T) {
	previous := []models.ChatMessage{
		{ID: 1, Content: "Hello", Role: models.RoleUser},
		{ID: 2, Content: "Failed to send message. Please try again.", Role: models.RoleAssistant, Error: true},
		{ID: 3, Content: "Hello?", Role: models.RoleUser},
		{ID: 4, Content: "Hi there", Role: models.RoleAssistant},
	}

	messages := ai.Messages(luke(), "Where are you from?", previous)

	require.Len(t, messages, 5)
	require.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	require.Contains(t, messages[0].Content, "Luke Skywalker")
	require.Contains(t, messages[0].Content, "Birth Year: 19BBY")
	require.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	require.Equal(t, "Hello?", messages[2].Content)
	require.Equal(t, openai.ChatMessageRoleAssistant, messages[3].Role)
	require.Equal(t, "Where are you from?", messages[4].Content)
	require.Equal(t, openai.ChatMessageRoleUser, messages[4].Role)
}

func TestPersonaSkipsUnknownValues(t *testing.T) {
	c := luke()
	c.SkinColor = "unknown"
	require.NotContains(t, ai.Persona(c), "Skin Color")
}

func TestChatter_Chat(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":" From Tatooine. "}}]}`))
	}))
	t.Cleanup(srv.Close)

	chatter := ai.NewChatter(ai.Config{APIKey: "test-key", BaseURL: srv.URL + "/", Model: "test-model"},
		lookup, testhelpers.NewLogger(io.Discard))

	reply, err := chatter.Chat(context.Background(), 1, "Where are you from?", nil)
	require.NoError(t, err)
	require.Equal(t, "From Tatooine.", reply.Response)
	require.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
}

func TestChatter_ChatFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(srv.Close)

	chatter := ai.NewChatter(ai.Config{APIKey: "bad", BaseURL: srv.URL, Model: ""}, lookup, nil)

	_, err := chatter.Chat(context.Background(), 1, "Hello", nil)
	require.EqualError(t, err, "Incorrect API key provided")

	_, err = chatter.Chat(context.Background(), 999, "Hello", nil)
	require.ErrorContains(t, err, "look up character")
}
