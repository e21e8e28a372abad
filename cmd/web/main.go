package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/holocron/internal/ai"
	"github.com/myrjola/holocron/internal/broker"
	"github.com/myrjola/holocron/internal/catalog"
	"github.com/myrjola/holocron/internal/chat"
	"github.com/myrjola/holocron/internal/envstruct"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/logging"
	"github.com/myrjola/holocron/internal/models"
	"github.com/myrjola/holocron/internal/pprofserver"
	"github.com/myrjola/holocron/internal/registry"
	"github.com/myrjola/holocron/internal/swapi"
)

type application struct {
	logger         *slog.Logger
	catalog        *catalog.Catalog
	api            *swapi.Client
	chatBackend    chat.Backend
	sessionManager *scs.SessionManager
	htmx           *htmx.HTMX
	views          *registry.Registry[view]
	chats          *registry.Registry[*chat.Session]
	replies        *broker.ChannelBroker[string, models.ChatMessage]
	// ctx outlives single requests. Listing views and chat turns run with it so that they survive the request that
	// started them and stop when the server shuts down.
	ctx         context.Context //nolint:containedctx // lifetime of the server
	chatTimeout time.Duration
}

type config struct {
	// Addr is the address the server listens on, e.g. "localhost:4000". Use port 0 for a random port.
	Addr           string        `env:"HOLOCRON_ADDR" envDefault:"localhost:4000"`
	APIURL         string        `env:"HOLOCRON_API_URL" envDefault:"http://localhost:3001/api"`
	APIToken       string        `env:"HOLOCRON_API_TOKEN" envDefault:""`
	APITimeout     time.Duration `env:"HOLOCRON_API_TIMEOUT" envDefault:"10s"`
	ViewTTL        time.Duration `env:"HOLOCRON_VIEW_TTL" envDefault:"30m"`
	RequestTimeout time.Duration `env:"HOLOCRON_REQUEST_TIMEOUT" envDefault:"30s"`
	// ChatBackend is either "api" to proxy chat through the remote API or "openai" to answer with a chat completion.
	ChatBackend   string `env:"HOLOCRON_CHAT_BACKEND" envDefault:"api"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:""`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:""`
	// PprofAddr enables the pprof server when set. Keep it on a loopback address.
	PprofAddr string `env:"HOLOCRON_PPROF_ADDR" envDefault:""`
}

const sweepInterval = time.Minute

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		err error
		cfg config
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cat *catalog.Catalog
	if cat, err = catalog.Load(); err != nil {
		return errors.Wrap(err, "load catalog")
	}

	var api *swapi.Client
	if api, err = swapi.NewClient(swapi.Config{
		BaseURL: cfg.APIURL,
		Token:   cfg.APIToken,
		Timeout: cfg.APITimeout,
	}, logger); err != nil {
		return errors.Wrap(err, "new API client")
	}

	var backend chat.Backend
	if backend, err = ai.NewBackend(cfg.ChatBackend, ai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	}, api.Characters, logger); err != nil {
		return errors.Wrap(err, "new chat backend")
	}

	if cfg.PprofAddr != "" {
		// Initialise pprof listening on localhost so that it's not open to the world
		if _, err = pprofserver.Launch(ctx, cfg.PprofAddr, logger); err != nil {
			return errors.Wrap(err, "launch pprof server")
		}
	}

	sessionManager := scs.New()
	sessionManager.Store = memstore.NewWithCleanupInterval(time.Hour)
	sessionManager.Lifetime = 12 * time.Hour //nolint:mnd // half a day

	app := application{
		logger:         logger,
		catalog:        cat,
		api:            api,
		chatBackend:    backend,
		sessionManager: sessionManager,
		htmx:           htmx.New(),
		views:          registry.New[view]("views", cfg.ViewTTL, registry.WithLogger[view](logger)),
		chats: registry.New[*chat.Session]("chats", cfg.ViewTTL,
			registry.WithLogger[*chat.Session](logger)),
		replies:     broker.NewChannelBroker[string, models.ChatMessage](),
		ctx:         ctx,
		chatTimeout: cfg.RequestTimeout,
	}

	go app.replies.Start()
	defer app.replies.Stop()
	go app.views.Run(ctx, sweepInterval)
	go app.chats.Run(ctx, sweepInterval)

	if err = app.configureAndStartServer(ctx, cfg.Addr, cfg.RequestTimeout); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.NewLogger(os.Stderr, slog.LevelInfo).LogAttrs(ctx, slog.LevelError, "load .env", errors.SlogError(err))
		os.Exit(1)
	}
	logger := logging.NewLogger(os.Stdout, logging.ParseLevel(os.Getenv("HOLOCRON_LOG_LEVEL")))
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
