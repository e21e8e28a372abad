package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/myrjola/holocron/internal/catalog"
	"github.com/myrjola/holocron/internal/detail"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/listing"
	"github.com/myrjola/holocron/internal/models"
	"github.com/myrjola/holocron/internal/swapi"
	"github.com/spf13/cobra"
)

var (
	ErrUnknownFilter = errors.NewSentinel("unknown filter")
	ErrUnknownOption = errors.NewSentinel("unknown filter option")
)

// entity is a catalog record that can be fetched again by its identifier.
type entity interface {
	models.Summary
	EntityID() int
}

// resourceFunc picks the resource of the category from the client, which only exists once the command runs.
type resourceFunc[T entity] func(api *swapi.Client) swapi.Resource[T]

func newResourceCmd[T entity](h *holocron, category catalog.Category, resource resourceFunc[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     category.Resource,
		GroupID: catalogGroup.ID,
		Short:   category.Description,
	}
	if string(category.Kind) != category.Resource {
		cmd.Aliases = []string{string(category.Kind)}
	}
	cmd.AddCommand(
		newListCmd(h, category, resource),
		newGetCmd(h, category, resource),
		newBrowseCmd(h, category, resource),
	)
	return cmd
}

type queryFlags struct {
	page    int
	search  string
	filters map[string]string
}

func (f *queryFlags) register(cmd *cobra.Command, category catalog.Category) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page to start from")
	cmd.Flags().StringVar(&f.search, "search", "", "search term")
	cmd.Flags().StringToStringVar(&f.filters, "filter", nil,
		fmt.Sprintf("filter as key=value, keys: %s", strings.Join(category.FilterKeys(), ", ")))
}

// query validates the flags the same way the web host validates the page URL.
func (f *queryFlags) query(category catalog.Category) (listing.Query, error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(f.page))
	values.Set("search", f.search)
	for key, value := range f.filters {
		if err := allowFilter(category, key, value); err != nil {
			return listing.Query{}, err
		}
		values.Set(key, value)
	}
	q, err := listing.ParseQuery(values, category.FilterKeys())
	if err != nil {
		return listing.Query{}, errors.Wrap(err, "parse query")
	}
	return q, nil
}

func allowFilter(category catalog.Category, key, value string) error {
	filter, ok := category.Filter(key)
	if !ok {
		return errors.Wrap(ErrUnknownFilter, "check filter", slog.String("key", key))
	}
	if !filter.Allows(value) {
		return errors.Wrap(ErrUnknownOption, "check filter", slog.String("key", key), slog.String("value", value))
	}
	return nil
}

func newListCmd[T entity](h *holocron, category catalog.Category, resource resourceFunc[T]) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", category.Plural),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := flags.query(category)
			if err != nil {
				return err
			}
			c := listing.New[T](cmd.Context(), resource(h.api).List,
				listing.WithQuery[T](q),
				listing.WithLogger[T](h.logger),
			)
			defer c.Close()
			c.Mount()

			state, err := c.Wait(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "list")
			}
			if state.Err != "" {
				return errors.New(state.Err)
			}
			printPage(cmd.OutOrStdout(), category, state)
			return nil
		},
	}
	flags.register(cmd, category)
	return cmd
}

func newGetCmd[T entity](h *holocron, category catalog.Category, resource resourceFunc[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show a single %s", category.Singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := detail.Load[T](cmd.Context(), resource(h.api).Get, args[0])
			switch result.Status {
			case detail.StatusReady:
				printDetail(cmd.OutOrStdout(), result.Item)
				return nil
			case detail.StatusNotFound:
				return errors.New(notFoundMessage(category), slog.Int("id", result.ID))
			case detail.StatusLoading, detail.StatusError:
				return errors.New(result.Err, slog.String("id", args[0]))
			}
			return nil
		},
	}
}
