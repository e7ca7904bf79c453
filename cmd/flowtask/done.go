package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark one or more tasks as done",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		for _, arg := range args {
			id, err := parseTaskID(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}

			task, err := st.MarkDone(ctx, id)
			if errors.Is(err, sql.ErrNoRows) {
				fmt.Fprintf(os.Stderr, "Error: task %d not found\n", id)
				os.Exit(1)
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			recordEvent(ctx, st, "task.done", task.ID, task)

			if jsonOutput {
				printJSON(task)
			} else {
				printTaskTable(task)
			}
		}
		return nil
	},
}
