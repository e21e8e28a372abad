// Package ai answers chat messages in character with an OpenAI compatible chat completion API.
package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/models"
	"github.com/sashabaranov/go-openai"
)

const (
	DefaultModel = openai.GPT3Dot5Turbo1106
	MaxTokens    = 1024
)

var ErrNoChoices = errors.NewSentinel("completion returned no choices")

type Config struct {
	APIKey string
	// BaseURL overrides the OpenAI endpoint, e.g. for a self-hosted compatible server.
	BaseURL string
	Model   string
}

// CharacterLookup fetches the character the conversation is held with.
type CharacterLookup func(ctx context.Context, id int) (models.Character, error)

// Chatter satisfies chat.Backend.
type Chatter struct {
	client *openai.Client
	model  string
	lookup CharacterLookup
	logger *slog.Logger
}

func NewChatter(cfg Config, lookup CharacterLookup, logger *slog.Logger) *Chatter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Chatter{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		lookup: lookup,
		logger: logger,
	}
}

// Chat answers message as the character with characterID given the previous conversation.
func (c *Chatter) Chat(
	ctx context.Context,
	characterID int,
	message string,
	previous []models.ChatMessage,
) (models.ChatReply, error) {
	character, err := c.lookup(ctx, characterID)
	if err != nil {
		return models.ChatReply{}, errors.Wrap(err, "look up character", slog.Int("character_id", characterID))
	}

	completion, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
		Model:     c.model,
		MaxTokens: MaxTokens,
		Messages:  Messages(character, message, previous),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return models.ChatReply{}, errors.New(apiErr.Message,
				slog.Int("status", apiErr.HTTPStatusCode), slog.String("model", c.model))
		}
		return models.ChatReply{}, errors.Wrap(err, "create chat completion", slog.String("model", c.model))
	}
	if len(completion.Choices) == 0 {
		return models.ChatReply{}, errors.Wrap(ErrNoChoices, "create chat completion", slog.String("model", c.model))
	}

	c.logger.LogAttrs(ctx, slog.LevelDebug, "chat completion",
		slog.Int("character_id", characterID),
		slog.Int("prompt_tokens", completion.Usage.PromptTokens),
		slog.Int("completion_tokens", completion.Usage.CompletionTokens))

	return models.ChatReply{Response: strings.TrimSpace(completion.Choices[0].Message.Content)}, nil
}

// Messages builds the completion request: the persona prompt, the previous conversation and the new message.
// Fallback replies of failed turns are left out.
func Messages(character models.Character, message string, previous []models.ChatMessage) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(previous)+2) //nolint:mnd // system prompt and message
	messages = append(messages, openai.ChatCompletionMessage{ //nolint:exhaustruct // only role and content needed
		Role:    openai.ChatMessageRoleSystem,
		Content: Persona(character),
	})
	for _, m := range previous {
		if m.Error {
			continue
		}
		role := openai.ChatMessageRoleUser
		if m.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{ //nolint:exhaustruct // only role and content needed
			Role:    role,
			Content: m.Content,
		})
	}
	return append(messages, openai.ChatCompletionMessage{ //nolint:exhaustruct // only role and content needed
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})
}

// Persona is the system prompt that keeps the model in character.
func Persona(character models.Character) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s from the Star Wars universe. Stay in character and answer in the first person.\n",
		character.Name)
	b.WriteString("Keep your answers short and conversational. Never mention that you are an AI.\n\nAbout you:\n")
	for _, f := range character.DetailFields() {
		if f.Value == "" || strings.EqualFold(f.Value, "unknown") || strings.EqualFold(f.Value, "n/a") {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.Label, f.Value)
	}
	return b.String()
}
