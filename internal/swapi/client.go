// Package swapi is the client for the remote Star Wars REST API.
package swapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/models"
	"golang.org/x/oauth2"
)

// Config configures the Client.
type Config struct {
	// BaseURL is the root of the API, e.g. "http://localhost:3001/api".
	BaseURL string
	// Token is sent as a bearer token when not empty.
	Token string
	// Timeout bounds every request. Zero means no timeout other than the one from the context.
	Timeout time.Duration
}

// Client talks to the remote API. Responses are never cached, identical calls issue independent requests.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     *slog.Logger

	Characters CharacterService
	Films      Resource[models.Film]
	Planets    Resource[models.Planet]
	Starships  Resource[models.Starship]
}

var ErrInvalidConfig = errors.NewSentinel("invalid API client configuration")

// NewClient creates a Client from cfg.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, "parse base URL", slog.String("base_url", cfg.BaseURL))
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Wrap(ErrInvalidConfig, "unsupported scheme", slog.String("base_url", cfg.BaseURL))
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}), //nolint:exhaustruct // static token
			Base:   http.DefaultTransport,
		}
	}

	c := &Client{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout}, //nolint:exhaustruct // defaults are fine
		baseURL:    base,
		logger:     logger,
	}
	c.Characters = CharacterService{Resource: newResource[models.Character](c, "characters", "character")}
	c.Films = newResource[models.Film](c, "films", "film")
	c.Planets = newResource[models.Planet](c, "planets", "planet")
	c.Starships = newResource[models.Starship](c, "starships", "starship")
	return c, nil
}

// ListParams selects a page of a collection. Empty search and empty filter values are left out of the query.
type ListParams struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

// Values encodes the parameters as a query string.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	for key, value := range p.Filters {
		if key == "" || value == "" {
			continue
		}
		v.Set(key, value)
	}
	return v
}

// Resource gives access to one collection of the API.
type Resource[T any] struct {
	client *Client
	path   string
	// listOp and getOp are the fallback error messages.
	listOp string
	getOp  string
}

func newResource[T any](c *Client, path, noun string) Resource[T] {
	return Resource[T]{
		client: c,
		path:   path,
		listOp: "Failed to fetch " + path,
		getOp:  "Failed to fetch " + noun,
	}
}

// List fetches one page of the collection.
func (r Resource[T]) List(ctx context.Context, params ListParams) (models.Page[T], error) {
	var page models.Page[T]
	u := r.client.endpoint(r.path)
	u.RawQuery = params.Values().Encode()
	if err := r.client.do(ctx, r.listOp, http.MethodGet, u, nil, &page); err != nil {
		return models.Page[T]{}, err //nolint:wrapcheck // *Error is the contract of this package
	}
	return page, nil
}

// Get fetches one record by its identifier.
func (r Resource[T]) Get(ctx context.Context, id int) (T, error) {
	var record T
	u := r.client.endpoint(r.path, strconv.Itoa(id))
	if err := r.client.do(ctx, r.getOp, http.MethodGet, u, nil, &record); err != nil {
		var zero T
		return zero, err //nolint:wrapcheck // *Error is the contract of this package
	}
	return record, nil
}

// CharacterService adds the chat endpoint to the character collection.
type CharacterService struct {
	Resource[models.Character]
}

type chatRequest struct {
	Message          string               `json:"message"`
	PreviousMessages []models.ChatMessage `json:"previousMessages"`
}

const chatOp = "Failed to send message"

// Chat sends message to the character together with the conversation so far, excluding message itself.
func (s CharacterService) Chat(
	ctx context.Context,
	id int,
	message string,
	previous []models.ChatMessage,
) (models.ChatReply, error) {
	if previous == nil {
		previous = []models.ChatMessage{}
	}
	body, err := json.Marshal(chatRequest{Message: message, PreviousMessages: previous})
	if err != nil {
		return models.ChatReply{}, transportError(chatOp, errors.Wrap(err, "marshal chat request"))
	}
	var reply models.ChatReply
	u := s.client.endpoint(s.path, strconv.Itoa(id), "chat")
	if err = s.client.do(ctx, chatOp, http.MethodPost, u, body, &reply); err != nil {
		return models.ChatReply{}, err //nolint:wrapcheck // *Error is the contract of this package
	}
	return reply, nil
}

func (c *Client) endpoint(segments ...string) *url.URL {
	return c.baseURL.JoinPath(segments...)
}

// do performs the request and decodes a 2xx JSON body into out. Every failure is returned as *Error.
func (c *Client) do(ctx context.Context, op, method string, u *url.URL, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return transportError(op, errors.Wrap(err, "create request"))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := transportError(op, errors.Wrap(err, "do request", slog.String("url", u.String())))
		c.logFailure(ctx, method, u, apiErr)
		return apiErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.LogAttrs(ctx, slog.LevelDebug, "api response",
		slog.String("method", method),
		slog.String("url", u.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		apiErr := serverError(op, resp.StatusCode, b)
		c.logFailure(ctx, method, u, apiErr)
		return apiErr
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		apiErr := transportError(op, errors.Wrap(err, "decode response"))
		c.logFailure(ctx, method, u, apiErr)
		return apiErr
	}
	return nil
}

const maxErrorBodyBytes = 64 << 10

func (c *Client) logFailure(ctx context.Context, method string, u *url.URL, apiErr *Error) {
	level := slog.LevelWarn
	if errors.Is(apiErr, context.Canceled) {
		level = slog.LevelDebug
	}
	c.logger.LogAttrs(ctx, level, "api request failed",
		slog.String("method", method),
		slog.String("url", u.String()),
		slog.String("kind", apiErr.Kind.String()),
		slog.Int("status", apiErr.Status),
		slog.String("message", apiErr.Message),
		errors.SlogError(apiErr.cause))
}
