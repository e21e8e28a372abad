package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/holocron/internal/chat"
	"github.com/myrjola/holocron/internal/e2etest"
	"github.com/myrjola/holocron/internal/models"
	"github.com/myrjola/holocron/internal/swapitest"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) (*e2etest.Server, *swapitest.Server) {
	t.Helper()
	api := swapitest.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	lookupEnv := func(key string) (string, bool) {
		switch key {
		case "HOLOCRON_ADDR":
			return "localhost:0", true
		case "HOLOCRON_API_URL":
			return api.URL, true
		case "HOLOCRON_REQUEST_TIMEOUT":
			return "5s", true
		default:
			return "", false
		}
	}
	server, err := e2etest.StartServer(ctx, io.Discard, lookupEnv, run)
	require.NoError(t, err)
	return server, api
}

// openListing loads a listing page and returns it together with its view id and CSRF token.
func openListing(ctx context.Context, t *testing.T, client *e2etest.Client, path string) (*goquery.Document, string, string) {
	t.Helper()
	doc, err := client.GetDoc(ctx, path)
	require.NoError(t, err)
	viewID, ok := doc.Find("form.controls").Attr("data-view")
	require.True(t, ok, "view id not found")
	token, err := e2etest.CSRFToken(doc)
	require.NoError(t, err)
	return doc, viewID, token
}

func cardTitles(doc *goquery.Document) []string {
	var titles []string
	doc.Find("#listing article.card h2").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, strings.TrimSpace(s.Text()))
	})
	return titles
}

func TestHome(t *testing.T) {
	ctx := context.Background()
	server, _ := startServer(t)

	doc, err := server.Client().GetDoc(ctx, "/")
	require.NoError(t, err)

	require.Equal(t, "Welcome to Star Wars Hub", strings.TrimSpace(doc.Find("h1").Text()))
	var routes []string
	doc.Find("a.card.category").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		routes = append(routes, href)
	})
	require.Equal(t, []string{"/characters", "/movies", "/starships", "/planets"}, routes)
	require.Equal(t, "/", doc.Find(".nav a[aria-current]").AttrOr("href", ""))
}

func TestHealthy(t *testing.T) {
	ctx := context.Background()
	server, _ := startServer(t)

	resp, err := server.Client().Get(ctx, "/api/healthy")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var got health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, "ok", got.Status)
}

func TestListing(t *testing.T) {
	ctx := context.Background()
	server, api := startServer(t)
	client := server.Client()

	doc, viewID, token := openListing(ctx, t, client, "/characters")
	require.Equal(t, "Star Wars Characters", strings.TrimSpace(doc.Find("h1").Text()))
	require.Len(t, cardTitles(doc), swapitest.DefaultPageSize)
	require.Equal(t, "/characters/1", doc.Find("#listing article.card h2 a").First().AttrOr("href", ""))
	require.Equal(t, "Page 1", doc.Find(".pagination .page").Text())
	_, prevDisabled := doc.Find(".pagination .prev").Attr("disabled")
	require.True(t, prevDisabled)
	_, nextDisabled := doc.Find(".pagination .next").Attr("disabled")
	require.False(t, nextDisabled)

	t.Run("next page", func(t *testing.T) {
		fragment, header, err := client.Post(ctx, "/views/"+viewID+"/next", token, url.Values{})
		require.NoError(t, err)
		require.Equal(t, []string{"Anakin Skywalker", "Wilhuff Tarkin"}, cardTitles(fragment))
		require.Equal(t, "Page 2", fragment.Find(".pagination .page").Text())
		require.Equal(t, "/characters?page=2", header.Get("HX-Push-Url"))

		// Next on the last page doesn't issue a request.
		before := len(api.RequestsTo("/characters"))
		fragment, _, err = client.Post(ctx, "/views/"+viewID+"/next", token, url.Values{})
		require.NoError(t, err)
		require.Equal(t, "Page 2", fragment.Find(".pagination .page").Text())
		require.Len(t, api.RequestsTo("/characters"), before)
	})

	t.Run("search resets page", func(t *testing.T) {
		fragment, header, err := client.Post(ctx, "/views/"+viewID+"/search", token,
			url.Values{"search": {"skywalker"}})
		require.NoError(t, err)
		require.Equal(t, []string{"Luke Skywalker", "Anakin Skywalker"}, cardTitles(fragment))
		require.Equal(t, "Page 1", fragment.Find(".pagination .page").Text())
		require.Equal(t, "/characters?search=skywalker", header.Get("HX-Push-Url"))

		last := api.RequestsTo("/characters")
		require.Equal(t, "skywalker", last[len(last)-1].Query.Get("search"))
	})

	t.Run("filter", func(t *testing.T) {
		fragment, header, err := client.Post(ctx, "/views/"+viewID+"/filters", token,
			url.Values{"search": {"skywalker"}, "gender": {"male"}})
		require.NoError(t, err)
		require.Equal(t, []string{"Luke Skywalker", "Anakin Skywalker"}, cardTitles(fragment))
		require.Equal(t, "/characters?gender=male&search=skywalker", header.Get("HX-Push-Url"))

		// Selecting the empty option removes the filter.
		_, header, err = client.Post(ctx, "/views/"+viewID+"/filters", token, url.Values{"gender": {""}})
		require.NoError(t, err)
		require.Equal(t, "/characters?search=skywalker", header.Get("HX-Push-Url"))
		last := api.RequestsTo("/characters")
		require.False(t, last[len(last)-1].Query.Has("gender"))
	})

	t.Run("unknown filter option", func(t *testing.T) {
		resp, err := client.PostRaw(ctx, "/views/"+viewID+"/filters", token, url.Values{"gender": {"droid"}})
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("close", func(t *testing.T) {
		resp, err := client.PostRaw(ctx, "/views/"+viewID+"/close", token, url.Values{})
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, err = client.PostRaw(ctx, "/views/"+viewID+"/next", token, url.Values{})
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListing_LoadingIndicator(t *testing.T) {
	ctx := context.Background()
	server, _ := startServer(t)
	client := server.Client()

	doc, viewID, token := openListing(ctx, t, client, "/planets")
	indicator := doc.Find("#listing-loading.htmx-indicator")
	require.Equal(t, 1, indicator.Length())
	require.Equal(t, "Loading planets...", strings.TrimSpace(indicator.Text()))
	// The indicator lives outside the swapped fragment so that it survives every swap.
	require.Zero(t, doc.Find("#listing #listing-loading").Length())
	require.Equal(t, "#listing-loading", doc.Find("form.controls").AttrOr("hx-indicator", ""))
	require.Equal(t, "#listing-loading", doc.Find("#listing .pagination").AttrOr("hx-indicator", ""))

	fragment, _, err := client.Post(ctx, "/views/"+viewID+"/search", token, url.Values{"search": {"o"}})
	require.NoError(t, err)
	require.Equal(t, "#listing-loading", fragment.Find(".pagination").AttrOr("hx-indicator", ""))
}

func TestListing_RestoresQuery(t *testing.T) {
	ctx := context.Background()
	server, _ := startServer(t)

	doc, _, _ := openListing(ctx, t, server.Client(), "/characters?gender=female")
	require.Equal(t, []string{"Leia Organa", "Beru Whitesun lars"}, cardTitles(doc))
	require.Equal(t, "female", doc.Find("select[name=gender] option[selected]").AttrOr("value", ""))

	doc, _, _ = openListing(ctx, t, server.Client(), "/movies?director=George+Lucas")
	require.Equal(t, []string{"A New Hope", "The Phantom Menace"}, cardTitles(doc))
	require.NotEmpty(t, doc.Find("#listing .excerpt").First().Text())
}

func TestListing_InvalidQuery(t *testing.T) {
	ctx := context.Background()
	server, _ := startServer(t)

	for _, path := range []string{"/characters?page=abc", "/characters?page=0", "/planets?climate=molten"} {
		resp, err := server.Client().Get(ctx, path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestListing_Failure(t *testing.T) {
	ctx := context.Background()
	server, api := startServer(t)
	api.Fail("/films", http.StatusInternalServerError, map[string]string{"message": "Archives are incomplete"})

	doc, _, _ := openListing(ctx, t, server.Client(), "/movies")
	require.Equal(t, "Error: Archives are incomplete", strings.TrimSpace(doc.Find("#listing .error").Text()))
	require.Empty(t, cardTitles(doc))
}

func TestListing_ForeignSession(t *testing.T) {
	ctx := context.Background()
	server, _ := startServer(t)

	_, viewID, _ := openListing(ctx, t, server.Client(), "/starships")

	other, err := server.NewClient()
	require.NoError(t, err)
	doc, err := other.GetDoc(ctx, "/")
	require.NoError(t, err)
	token, err := e2etest.CSRFToken(doc)
	require.NoError(t, err)

	resp, err := other.PostRaw(ctx, "/views/"+viewID+"/next", token, url.Values{})
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatic_ChatSendButton(t *testing.T) {
	ctx := context.Background()
	server, _ := startServer(t)

	resp, err := server.Client().Get(ctx, "/static/app.js")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Blank input and a pending reply both disable the send button, re-evaluated on every keystroke.
	script := string(body)
	require.Contains(t, script, "form.classList.contains('awaiting') || input.value.trim() === ''")
	require.Contains(t, script, "input.addEventListener('input'")
}

func TestCSRF(t *testing.T) {
	ctx := context.Background()
	server, _ := startServer(t)

	_, viewID, _ := openListing(ctx, t, server.Client(), "/planets")
	resp, err := server.Client().PostRaw(ctx, "/views/"+viewID+"/next", "", url.Values{})
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCharacterPage(t *testing.T) {
	ctx := context.Background()
	server, api := startServer(t)
	client := server.Client()

	t.Run("shell loads the panel", func(t *testing.T) {
		doc, err := client.GetDoc(ctx, "/characters/1")
		require.NoError(t, err)
		require.Equal(t, "/characters/1/panel", doc.Find("#character-panel .loading").AttrOr("hx-get", ""))
		require.Equal(t, "/characters", doc.Find(".nav a[aria-current]").AttrOr("href", ""))
	})

	t.Run("invalid identifier", func(t *testing.T) {
		before := len(api.Requests())
		resp, err := client.Get(ctx, "/characters/luke")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		doc, err := goquery.NewDocumentFromReader(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "Error: Invalid identifier", strings.TrimSpace(doc.Find("#character-panel .error").Text()))
		require.Len(t, api.Requests(), before)
	})

	t.Run("panel", func(t *testing.T) {
		doc, err := client.GetFragment(ctx, "/characters/5/panel")
		require.NoError(t, err)
		require.Equal(t, "Leia Organa", doc.Find("h1").Text())
		require.Contains(t, doc.Find("dl").Text(), "Skin Color")
		require.Contains(t, doc.Find(".chat .empty").Text(), "Start a conversation with Leia Organa")
	})

	t.Run("not found", func(t *testing.T) {
		doc, err := client.GetFragment(ctx, "/characters/404/panel")
		require.NoError(t, err)
		require.Equal(t, "Character not found", strings.TrimSpace(doc.Find(".error").Text()))
	})
}

// openChat loads the panel of character id and returns the chat id and the CSRF token.
func openChat(ctx context.Context, t *testing.T, client *e2etest.Client, id string) (string, string) {
	t.Helper()
	doc, err := client.GetDoc(ctx, "/characters/"+id)
	require.NoError(t, err)
	token, err := e2etest.CSRFToken(doc)
	require.NoError(t, err)
	panel, err := client.GetFragment(ctx, "/characters/"+id+"/panel")
	require.NoError(t, err)
	closeURL, ok := panel.Find(".chat").Attr("data-close-url")
	require.True(t, ok)
	chatID := strings.TrimSuffix(strings.TrimPrefix(closeURL, "/chats/"), "/close")
	return chatID, token
}

// sendMessage posts a chat message and fetches the reply the way the pending placeholder does.
func sendMessage(
	ctx context.Context,
	t *testing.T,
	client *e2etest.Client,
	chatID, token, message string,
) (*goquery.Document, *goquery.Document) {
	t.Helper()
	turn, _, err := client.Post(ctx, "/chats/"+chatID+"/messages", token, url.Values{"message": {message}})
	require.NoError(t, err)
	turnURL, ok := turn.Find(".pending").Attr("hx-get")
	require.True(t, ok, "pending reply placeholder not found")
	reply, err := client.GetFragment(ctx, turnURL)
	require.NoError(t, err)
	return turn, reply
}

func TestChat(t *testing.T) {
	ctx := context.Background()
	server, api := startServer(t)
	client := server.Client()
	chatID, token := openChat(ctx, t, client, "1")

	turn, reply := sendMessage(ctx, t, client, chatID, token, "  Hello there  ")
	require.Equal(t, "Hello there", turn.Find(".message.user p").Text())
	require.Contains(t, turn.Find(".pending").Text(), "Luke Skywalker is typing...")
	require.Equal(t, "Luke Skywalker hears you: Hello there", reply.Find(".message.assistant p").Text())
	require.Zero(t, reply.Find(".message.failed").Length())

	// Fetching the reply again, e.g. after a reconnect, gives the same message.
	turnURL := turn.Find(".pending").AttrOr("hx-get", "")
	again, err := client.GetFragment(ctx, turnURL)
	require.NoError(t, err)
	require.Equal(t, reply.Find(".message").AttrOr("data-id", ""), again.Find(".message").AttrOr("data-id", ""))

	_, _ = sendMessage(ctx, t, client, chatID, token, "Where is Leia?")
	requests := api.RequestsTo("/characters/1/chat")
	require.Len(t, requests, 2)
	var body swapitest.ChatRequest
	require.NoError(t, json.Unmarshal(requests[1].Body, &body))
	require.Equal(t, "Where is Leia?", body.Message)
	require.Len(t, body.PreviousMessages, 2)
	require.Equal(t, models.RoleUser, body.PreviousMessages[0].Role)
	require.Less(t, body.PreviousMessages[0].ID, body.PreviousMessages[1].ID)

	t.Run("blank message", func(t *testing.T) {
		resp, err := client.PostRaw(ctx, "/chats/"+chatID+"/messages", token, url.Values{"message": {"   "}})
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		require.Len(t, api.RequestsTo("/characters/1/chat"), 2)
	})
}

func TestChat_Failure(t *testing.T) {
	ctx := context.Background()
	server, api := startServer(t)
	client := server.Client()
	api.SetChat(func(_ models.Character, _ swapitest.ChatRequest) (string, int) {
		return "The holonet is down", http.StatusServiceUnavailable
	})
	chatID, token := openChat(ctx, t, client, "4")

	turn, reply := sendMessage(ctx, t, client, chatID, token, "I am your father")
	require.Equal(t, "I am your father", turn.Find(".message.user p").Text())
	require.Equal(t, chat.FallbackReply, reply.Find(".message.failed p").Text())
	require.Equal(t, "Error: The holonet is down", strings.TrimSpace(reply.Find("#chat-banner").Text()))

	// The next turn clears the banner.
	api.SetChat(swapitest.EchoChat)
	turn, reply = sendMessage(ctx, t, client, chatID, token, "Sorry")
	_, hidden := turn.Find("#chat-banner").Attr("hidden")
	require.True(t, hidden)
	require.Zero(t, reply.Find("#chat-banner").Length())
}

func TestChat_TurnInFlight(t *testing.T) {
	ctx := context.Background()
	server, api := startServer(t)
	client := server.Client()
	api.Delay("/characters/2/chat", 500*time.Millisecond)
	chatID, token := openChat(ctx, t, client, "2")

	_, _, err := client.Post(ctx, "/chats/"+chatID+"/messages", token, url.Values{"message": {"Hello"}})
	require.NoError(t, err)
	resp, err := client.PostRaw(ctx, "/chats/"+chatID+"/messages", token, url.Values{"message": {"Hello again"}})
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}
