package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show the audit trail for a task, or all events",
	Long: `With an id, show the events recorded for that task. Without one, show
every event, including database-wide ones such as imports (recorded with
task id 0).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if len(args) == 1 {
			var err error
			id, err = parseTaskID(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		events, err := st.ListEvents(context.Background(), id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(events)
			return nil
		}
		if len(events) == 0 {
			fmt.Println("No events found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tTASK\tTOPIC\tPAYLOAD")
		for _, e := range events {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", e.CreatedAt.Format(timestampFormat), e.TaskID, e.Topic, string(e.Payload))
		}
		w.Flush()
		return nil
	},
}
