package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shortlist/internal/api"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			task, err := apiClient.Insert(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("add task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", shortID(task.ID), task.Text)
			return nil
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := apiClient.Tasks(cmd.Context(), !all)
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}

			stdout := cmd.OutOrStdout()
			if len(resp.Tasks) == 0 {
				fmt.Fprintln(stdout, "No tasks")
				return nil
			}

			rows := make([][]string, 0, len(resp.Tasks))
			for _, task := range resp.Tasks {
				rows = append(rows, []string{shortID(task.ID), checkbox(task.IsChecked), task.Text, task.CreatedAt})
			}
			printRows(stdout, []string{"ID", "Done", "Text", "Created"}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed tasks")
	return cmd
}

func newToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Toggle a task's checked state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			id, err := resolveTaskID(cmd, apiClient, args[0])
			if err != nil {
				return err
			}
			resp, err := apiClient.Toggle(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("toggle task: %w", err)
			}
			state := "open"
			if resp.IsChecked {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", shortID(resp.ID), state)
			return nil
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}
			id, err := resolveTaskID(cmd, apiClient, args[0])
			if err != nil {
				return err
			}
			if err := apiClient.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
			return nil
		},
	}
}

// resolveTaskID accepts a full task id or an unambiguous prefix of one,
// resolved against the caller's own tasks.
func resolveTaskID(cmd *cobra.Command, apiClient taskLister, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("task id is required")
	}

	resp, err := apiClient.Tasks(cmd.Context(), false)
	if err != nil {
		return "", fmt.Errorf("resolve task id: %w", err)
	}

	var matches []string
	for _, task := range resp.Tasks {
		if task.ID == arg {
			return task.ID, nil
		}
		if strings.HasPrefix(task.ID, arg) {
			matches = append(matches, task.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		// Let the server produce the uniform not-found failure.
		return arg, nil
	default:
		return "", fmt.Errorf("task id prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}

type taskLister interface {
	Tasks(ctx context.Context, hideChecked bool) (api.TaskListResponse, error)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}
