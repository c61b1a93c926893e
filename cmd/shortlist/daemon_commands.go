package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"shortlist/internal/ipc"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Control the shortlistd process",
	}

	daemonCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show daemon status over the control socket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withIPC(func(conn *ipc.Client) error {
				status, err := conn.Status()
				if err != nil {
					return fmt.Errorf("daemon status: %w", err)
				}

				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Running:         %s\n", yesNo(status.Running))
				fmt.Fprintf(stdout, "PID:             %d\n", status.PID)
				fmt.Fprintf(stdout, "API:             %s\n", status.APIAddr)
				fmt.Fprintf(stdout, "Database:        %s\n", status.DatabasePath)
				fmt.Fprintf(stdout, "Lock file:       %s\n", status.LockPath)
				fmt.Fprintf(stdout, "Active sessions: %d\n", status.ActiveSessions)
				fmt.Fprintf(stdout, "Feed sequence:   %d\n", status.FeedSequence)

				if len(status.TaskCounts) > 0 {
					owners := make([]string, 0, len(status.TaskCounts))
					for owner := range status.TaskCounts {
						owners = append(owners, owner)
					}
					sort.Strings(owners)
					rows := make([][]string, 0, len(owners))
					for _, owner := range owners {
						rows = append(rows, []string{shortID(owner), fmt.Sprintf("%d", status.TaskCounts[owner])})
					}
					printRows(stdout, []string{"Owner", "Tasks"}, rows)
				}
				return nil
			})
		},
	})

	daemonCmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the shortlistd process",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withIPC(func(conn *ipc.Client) error {
				resp, err := conn.Stop()
				if err != nil {
					return fmt.Errorf("daemon stop: %w", err)
				}
				if !resp.Stopped {
					return fmt.Errorf("daemon did not acknowledge stop")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped")
				return nil
			})
		},
	})

	return daemonCmd
}
