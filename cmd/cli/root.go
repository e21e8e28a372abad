package main

import (
	"log/slog"
	"time"

	"github.com/myrjola/holocron/internal/ai"
	"github.com/myrjola/holocron/internal/catalog"
	"github.com/myrjola/holocron/internal/chat"
	"github.com/myrjola/holocron/internal/envstruct"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/logging"
	"github.com/myrjola/holocron/internal/models"
	"github.com/myrjola/holocron/internal/swapi"
	"github.com/spf13/cobra"
)

type config struct {
	APIURL     string        `env:"HOLOCRON_API_URL" envDefault:"http://localhost:3001/api"`
	APIToken   string        `env:"HOLOCRON_API_TOKEN" envDefault:""`
	APITimeout time.Duration `env:"HOLOCRON_API_TIMEOUT" envDefault:"10s"`
	// LogLevel defaults to warn so that the log doesn't drown the output.
	LogLevel      string `env:"HOLOCRON_LOG_LEVEL" envDefault:"warn"`
	ChatBackend   string `env:"HOLOCRON_CHAT_BACKEND" envDefault:"api"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:""`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:""`
}

// holocron carries the dependencies of the commands. They are set up in the persistent pre-run hook so that help
// and usage work without configuration.
type holocron struct {
	logger  *slog.Logger
	api     *swapi.Client
	backend chat.Backend
}

func (h *holocron) setup(cmd *cobra.Command, lookupEnv func(string) (string, bool)) error {
	var (
		cfg config
		err error
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}
	h.logger = logging.NewLogger(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))

	if h.api, err = swapi.NewClient(swapi.Config{
		BaseURL: cfg.APIURL,
		Token:   cfg.APIToken,
		Timeout: cfg.APITimeout,
	}, h.logger); err != nil {
		return errors.Wrap(err, "new API client")
	}
	if h.backend, err = ai.NewBackend(cfg.ChatBackend, ai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	}, h.api.Characters, h.logger); err != nil {
		return errors.Wrap(err, "new chat backend")
	}
	return nil
}

var catalogGroup = &cobra.Group{
	ID:    "catalog",
	Title: "Catalog",
}

func newRootCmd(lookupEnv func(string) (string, bool)) (*cobra.Command, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}

	h := &holocron{}
	root := &cobra.Command{
		Use:   "holocron",
		Short: "Browse the Star Wars archives",
		Long: `Command line client for the Star Wars archives.

Lists, searches and filters characters, films, planets and starships and lets you chat with characters.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return h.setup(cmd, lookupEnv)
		},
	}
	root.AddGroup(catalogGroup)

	for _, category := range cat.Categories {
		var cmd *cobra.Command
		switch category.Kind {
		case catalog.KindCharacters:
			cmd = newResourceCmd(h, category, func(api *swapi.Client) swapi.Resource[models.Character] {
				return api.Characters.Resource
			})
			cmd.AddCommand(newChatCmd(h))
		case catalog.KindMovies:
			cmd = newResourceCmd(h, category, func(api *swapi.Client) swapi.Resource[models.Film] {
				return api.Films
			})
		case catalog.KindPlanets:
			cmd = newResourceCmd(h, category, func(api *swapi.Client) swapi.Resource[models.Planet] {
				return api.Planets
			})
		case catalog.KindStarships:
			cmd = newResourceCmd(h, category, func(api *swapi.Client) swapi.Resource[models.Starship] {
				return api.Starships
			})
		default:
			continue
		}
		root.AddCommand(cmd)
	}
	return root, nil
}
