package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status over the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := apiClient.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch status: %w", err)
			}

			stdout := cmd.OutOrStdout()
			fmt.Fprintf(stdout, "Running:         %s\n", yesNo(status.Running))
			fmt.Fprintf(stdout, "PID:             %d\n", status.PID)
			fmt.Fprintf(stdout, "Database:        %s\n", status.DatabasePath)
			fmt.Fprintf(stdout, "Lock file:       %s\n", status.LockFilePath)
			fmt.Fprintf(stdout, "Active sessions: %d\n", status.ActiveSessions)
			fmt.Fprintf(stdout, "Feed sequence:   %d\n", status.FeedSequence)

			if len(status.TaskCounts) == 0 {
				fmt.Fprintln(stdout, "Tasks:           none")
				return nil
			}
			total := 0
			owners := make([]string, 0, len(status.TaskCounts))
			for owner, count := range status.TaskCounts {
				owners = append(owners, owner)
				total += count
			}
			sort.Strings(owners)
			fmt.Fprintf(stdout, "Tasks:           %d across %d accounts\n", total, len(owners))
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
