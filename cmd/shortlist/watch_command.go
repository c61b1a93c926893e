package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shortlist/internal/client"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var since uint64

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the task feed until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()

			cursor := since
			if cursor == 0 {
				// Skip history: start from the current head.
				head, err := apiClient.FeedFetch(cmd.Context(), client.FeedQuery{})
				if err != nil {
					return fmt.Errorf("fetch feed head: %w", err)
				}
				cursor = head.Next
			}

			fmt.Fprintln(stdout, "Watching for task changes (Ctrl-C to stop)")
			for {
				resp, err := apiClient.FeedFetch(cmd.Context(), client.FeedQuery{Since: cursor, Wait: true})
				if err != nil {
					if errors.Is(err, context.Canceled) || cmd.Context().Err() != nil {
						return nil
					}
					return fmt.Errorf("fetch feed: %w", err)
				}
				for _, event := range resp.Events {
					fmt.Fprintf(stdout, "%s  %-7s  %s  %s\n",
						event.Timestamp, event.Kind, shortID(event.Task.ID), event.Task.Text)
				}
				cursor = resp.Next
			}
		},
	}
	cmd.Flags().Uint64Var(&since, "since", 0, "Feed cursor to resume from (0 starts at the head)")
	return cmd
}
