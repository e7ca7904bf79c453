package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/flowtask/internal/graph"
	"github.com/groblegark/flowtask/internal/model"
	"github.com/groblegark/flowtask/internal/ui"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "List tasks that are ready to work on",
	Long: `A task is ready when it is still todo and every task it depends on is
done. Ready tasks are ordered by due date (undated last), then priority,
then id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

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

		ready := graph.Ready(tasks, graph.EdgesOf(deps))
		if limit > 0 && len(ready) > limit {
			ready = ready[:limit]
		}

		if jsonOutput {
			printJSON(ready)
			return nil
		}
		if len(ready) == 0 {
			fmt.Println("Nothing is ready.")
			return nil
		}
		fmt.Println(ui.RenderReady(fmt.Sprintf("%d ready", len(ready))))
		printTaskListTable(ready)
		return nil
	},
}

func init() {
	nextCmd.Flags().Int("limit", 0, "show at most this many tasks (0 = all)")
}
