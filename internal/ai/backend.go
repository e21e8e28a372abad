package ai

import (
	"log/slog"

	"github.com/myrjola/holocron/internal/chat"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/swapi"
)

const (
	// BackendAPI proxies chat messages to the chat endpoint of the remote API.
	BackendAPI = "api"
	// BackendOpenAI answers with a chat completion in character.
	BackendOpenAI = "openai"
)

var ErrUnknownBackend = errors.NewSentinel("unknown chat backend")

// NewBackend selects the backend answering chat messages by name.
func NewBackend(name string, cfg Config, characters swapi.CharacterService, logger *slog.Logger) (chat.Backend, error) {
	switch name {
	case BackendAPI:
		return characters, nil
	case BackendOpenAI:
		return NewChatter(cfg, characters.Get, logger), nil
	default:
		return nil, errors.Wrap(ErrUnknownBackend, "select chat backend", slog.String("backend", name))
	}
}
