package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/flowtask/internal/model"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task and its prerequisites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		task, err := st.GetTask(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			fmt.Fprintf(os.Stderr, "Error: task %d not found\n", id)
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		deps, err := st.TaskDependencies(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var prereqs []*model.Task
		for _, d := range deps {
			p, err := st.GetTask(ctx, d.DependsOnID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			prereqs = append(prereqs, p)
		}

		if jsonOutput {
			printJSON(struct {
				Task      *model.Task   `json:"task"`
				DependsOn []*model.Task `json:"depends_on"`
			}{task, prereqs})
			return nil
		}

		printTaskTable(task)
		if len(prereqs) > 0 {
			fmt.Println("\nDepends on:")
			printTaskListTable(prereqs)
		}
		return nil
	},
}
