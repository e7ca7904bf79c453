package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/flowtask/internal/graph"
	"github.com/groblegark/flowtask/internal/model"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print all tasks in a valid execution order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		tasks, err := st.ListTasks(ctx, model.TaskFilter{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		deps, err := st.ListDependencies(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		byID := make(map[int64]*model.Task, len(tasks))
		ids := make([]int64, 0, len(tasks))
		for _, t := range tasks {
			byID[t.ID] = t
			ids = append(ids, t.ID)
		}

		sorted, err := graph.TopoSort(ids, graph.EdgesOf(deps))
		if errors.Is(err, graph.ErrGraphInconsistent) {
			fmt.Fprintln(os.Stderr, "Error: dependency graph contains a cycle")
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ordered := make([]*model.Task, 0, len(sorted))
		for _, id := range sorted {
			ordered = append(ordered, byID[id])
		}

		if jsonOutput {
			printJSON(ordered)
		} else {
			printTaskListTable(ordered)
		}
		return nil
	},
}
