package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/groblegark/flowtask/internal/graph"
	"github.com/groblegark/flowtask/internal/model"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage task dependencies",
}

var depAddCmd = &cobra.Command{
	Use:   "add <id> <depends-on-id>",
	Short: "Record that a task depends on another",
	Long: `Record that <id> cannot start until <depends-on-id> is done. The edge
is rejected if it would create a cycle.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		dependsOnID, err := parseTaskID(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		for _, id := range []int64{taskID, dependsOnID} {
			if _, err := st.GetTask(ctx, id); errors.Is(err, sql.ErrNoRows) {
				fmt.Fprintf(os.Stderr, "Error: task %d not found\n", id)
				os.Exit(1)
			} else if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		deps, err := st.ListDependencies(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if graph.WouldCreateCycle(graph.EdgesOf(deps), taskID, dependsOnID) {
			fmt.Fprintf(os.Stderr, "Error: %v (%d -> %d)\n", graph.ErrCycle, taskID, dependsOnID)
			os.Exit(1)
		}

		dep := &model.Dependency{TaskID: taskID, DependsOnID: dependsOnID}
		if err := st.AddDependency(ctx, dep); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		recordEvent(ctx, st, "dep.added", taskID, dep)

		if jsonOutput {
			printJSON(dep)
		} else {
			fmt.Printf("Task %d now depends on task %d\n", taskID, dependsOnID)
		}
		return nil
	},
}

var depListCmd = &cobra.Command{
	Use:   "list [id]",
	Short: "List dependency edges, optionally for one task",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var deps []*model.Dependency
		var err error
		if len(args) == 1 {
			var id int64
			id, err = parseTaskID(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			deps, err = st.TaskDependencies(ctx, id)
		} else {
			deps, err = st.ListDependencies(ctx)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(deps)
			return nil
		}
		if len(deps) == 0 {
			fmt.Println("No dependencies found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TASK\tDEPENDS_ON\tCREATED_AT")
		for _, d := range deps {
			fmt.Fprintf(w, "%d\t%d\t%s\n", d.TaskID, d.DependsOnID, d.CreatedAt.Format(timestampFormat))
		}
		w.Flush()
		return nil
	},
}

func init() {
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depListCmd)
}
