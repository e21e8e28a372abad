package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/holocron/internal/e2etest"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/logging"
	"golang.org/x/sync/errgroup"
)

var routes = []string{"/characters", "/movies", "/starships", "/planets"}

const concurrency = 4

// smokeTest loads every page of every listing and then the detail panel of every character found.
func smokeTest(ctx context.Context, client *e2etest.Client, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if _, err := client.GetDoc(ctx, "/"); err != nil {
		return errors.Wrap(err, "get home")
	}

	var (
		mu    sync.Mutex
		links []string
	)
	collect := func(doc *goquery.Document) {
		mu.Lock()
		defer mu.Unlock()
		doc.Find("#listing article.card h2 a").Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok {
				links = append(links, href)
			}
		})
	}

	pages, pagesCtx := errgroup.WithContext(ctx)
	pages.SetLimit(concurrency)
	for _, route := range routes {
		doc, err := client.GetDoc(ctx, route)
		if err != nil {
			return errors.Wrap(err, "get listing", slog.String("route", route))
		}
		if msg := doc.Find("#listing .error").Text(); msg != "" {
			return errors.New("listing failed", slog.String("route", route), slog.String("error", msg))
		}
		totalPages, _ := strconv.Atoi(doc.Find("#listing").AttrOr("data-total-pages", "1"))
		logger.LogAttrs(ctx, slog.LevelInfo, "listing loaded",
			slog.String("route", route), slog.Int("total_pages", totalPages))
		collect(doc)

		for page := 2; page <= totalPages; page++ {
			path := route + "?page=" + strconv.Itoa(page)
			pages.Go(func() error {
				pageDoc, pageErr := client.GetDoc(pagesCtx, path)
				if pageErr != nil {
					return errors.Wrap(pageErr, "get listing page", slog.String("path", path))
				}
				collect(pageDoc)
				return nil
			})
		}
	}
	if err := pages.Wait(); err != nil {
		return errors.Wrap(err, "fetch listing pages")
	}

	details, detailsCtx := errgroup.WithContext(ctx)
	details.SetLimit(concurrency)
	for _, href := range links {
		details.Go(func() error {
			panel, err := client.GetFragment(detailsCtx, href+"/panel")
			if err != nil {
				return errors.Wrap(err, "get detail panel", slog.String("href", href))
			}
			if msg := panel.Find(".error").Text(); msg != "" {
				return errors.New("detail failed", slog.String("href", href), slog.String("error", msg))
			}
			return nil
		})
	}
	if err := details.Wait(); err != nil {
		return errors.Wrap(err, "fetch detail panels")
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "detail panels loaded", slog.Int("count", len(links)))
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelDebug)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only the base URL to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <base URL>")
		os.Exit(1)
	}

	var (
		url    = os.Args[1]
		client *e2etest.Client
		err    error
	)
	ctx = logging.WithAttrs(ctx, slog.String("url", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = smokeTest(ctx, client, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "smoke test failed", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
}
