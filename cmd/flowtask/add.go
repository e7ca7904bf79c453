package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/flowtask/internal/model"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetInt("priority")
		dueStr, _ := cmd.Flags().GetString("due")
		tags, _ := cmd.Flags().GetString("tags")

		task := &model.Task{
			Title:       args[0],
			Description: description,
			Priority:    priority,
			Status:      model.StatusTodo,
			Tags:        tags,
		}
		if dueStr != "" {
			due, err := model.ParseDate(dueStr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			task.Due = &due
		}

		if err := model.ValidateTask(task); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		if err := st.CreateTask(ctx, task); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		recordEvent(ctx, st, "task.created", task.ID, task)

		if jsonOutput {
			printJSON(task)
		} else {
			printTaskTable(task)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringP("description", "d", "", "task description")
	addCmd.Flags().IntP("priority", "p", 0, "task priority (higher is more urgent)")
	addCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().StringP("tags", "t", "", "comma-separated tags")
}
