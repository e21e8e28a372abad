package main

import (
	"bufio"
	"fmt"
	"log/slog"

	"github.com/myrjola/holocron/internal/chat"
	"github.com/myrjola/holocron/internal/detail"
	"github.com/myrjola/holocron/internal/errors"
	"github.com/myrjola/holocron/internal/logging"
	"github.com/myrjola/holocron/internal/models"
	"github.com/spf13/cobra"
)

func newChatCmd(h *holocron) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <id>",
		Short: "Chat with a character",
		Long: `Chat with a character.

Every line read from standard input is sent as a message and the reply is printed before the next line is read.
Blank lines are ignored. End the conversation with Ctrl-D.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			result := detail.Load[models.Character](ctx, h.api.Characters.Get, args[0])
			switch result.Status {
			case detail.StatusReady:
			case detail.StatusNotFound:
				return errors.New("Character not found", slog.Int("id", result.ID))
			case detail.StatusLoading, detail.StatusError:
				return errors.New(result.Err, slog.String("id", args[0]))
			}

			character := result.Item
			ctx = logging.WithAttrs(ctx, slog.Int("character_id", result.ID))
			session := chat.New(ctx, character, h.backend, chat.WithLogger(h.logger))
			defer session.Close()

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, mutedStyle.Render("Start a conversation with "+character.Name))
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				_, _ = fmt.Fprint(out, userStyle.Render("You: "))
				if !scanner.Scan() {
					_, _ = fmt.Fprintln(out)
					return errors.Wrap(scanner.Err(), "read message")
				}
				reply, err := session.Send(ctx, scanner.Text())
				switch {
				case errors.Is(err, chat.ErrBlankMessage):
					continue
				case reply.ID == 0 && err != nil:
					return err
				}
				_, _ = fmt.Fprintln(out, assistantStyle.Render(character.Name+": ")+reply.Content)
				if err != nil {
					_, _ = fmt.Fprintln(out, errorStyle.Render("Error: "+session.Snapshot().Banner))
				}
			}
		},
	}
}
