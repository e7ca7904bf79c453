package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/flowtask/internal/model"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, _ := cmd.Flags().GetStringSlice("status")
		search, _ := cmd.Flags().GetString("search")
		tag, _ := cmd.Flags().GetString("tag")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		filter := model.TaskFilter{
			Search: search,
			Tag:    tag,
			Limit:  limit,
			Offset: offset,
		}
		for _, s := range statuses {
			status := model.Status(s)
			if !status.IsValid() {
				fmt.Fprintf(os.Stderr, "Error: invalid status %q\n", s)
				os.Exit(1)
			}
			filter.Status = append(filter.Status, status)
		}

		tasks, err := st.ListTasks(context.Background(), filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(tasks)
		} else {
			printTaskListTable(tasks)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringSliceP("status", "s", nil, "filter by status (repeatable)")
	listCmd.Flags().String("search", "", "substring match on title and description")
	listCmd.Flags().String("tag", "", "filter by tag")
	listCmd.Flags().Int("limit", 0, "maximum number of tasks to return (0 = all)")
	listCmd.Flags().Int("offset", 0, "offset for pagination")
}
