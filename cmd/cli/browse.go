package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/myrjola/holocron/internal/catalog"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/listing"
	"github.com/spf13/cobra"
)

const browseHelp = "n: next page, p: previous page, /term: search, f key=value: filter, q: quit"

func newBrowseCmd[T entity](h *holocron, category catalog.Category, resource resourceFunc[T]) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "browse",
		Short: fmt.Sprintf("Browse %s interactively", category.Plural),
		Long: fmt.Sprintf(`Browse %s interactively.

Commands are read one per line: %s.`, category.Plural, browseHelp),
		Args: cobra.NoArgs,
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
			return browse(cmd, category, c)
		},
	}
	flags.register(cmd, category)
	return cmd
}

func browse[T entity](cmd *cobra.Command, category catalog.Category, c *listing.Coordinator[T]) error {
	var (
		out     = cmd.OutOrStdout()
		scanner = bufio.NewScanner(cmd.InOrStdin())
		render  = true
	)
	for {
		if render {
			state, err := c.Wait(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "browse")
			}
			printPage(out, category, state)
			if state.Err != "" {
				_, _ = fmt.Fprintln(out, errorStyle.Render("Error: "+state.Err))
			}
			_, _ = fmt.Fprintln(out, mutedStyle.Render(browseHelp))
		}
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			return errors.Wrap(scanner.Err(), "read command")
		}
		render = true

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "q":
			return nil
		case line == "n":
			c.NextPage()
		case line == "p":
			c.PrevPage()
		case strings.HasPrefix(line, "/"):
			c.Search(strings.TrimSpace(line[1:]))
		case strings.HasPrefix(line, "f "):
			key, value, _ := strings.Cut(strings.TrimSpace(line[2:]), "=")
			key, value = strings.TrimSpace(key), strings.TrimSpace(value)
			if err := allowFilter(category, key, value); err != nil {
				_, _ = fmt.Fprintln(out, errorStyle.Render(err.Error()))
				render = false
				continue
			}
			c.SetFilter(key, value)
		default:
			_, _ = fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("unknown command %q", line)))
			render = false
		}
	}
}
