package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/groblegark/flowtask/internal/model"
	"github.com/groblegark/flowtask/internal/ui"
)

const timestampFormat = "2006-01-02 15:04:05"

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func dueString(t *model.Task) string {
	if t.Due == nil {
		return "-"
	}
	return t.Due.String()
}

func overdue(t *model.Task) bool {
	if t.Status != model.StatusTodo || t.Due == nil {
		return false
	}
	today := time.Now().UTC().Format(model.DateLayout)
	return t.Due.String() < today
}

// statusCell renders the status column, dimming done tasks and
// highlighting overdue ones.
func statusCell(t *model.Task) string {
	switch {
	case t.Status == model.StatusDone:
		return ui.RenderDone(string(t.Status))
	case overdue(t):
		return ui.RenderOverdue(string(t.Status))
	default:
		return string(t.Status)
	}
}

func printTaskTable(t *model.Task) {
	fmt.Printf("ID:          %d\n", t.ID)
	fmt.Printf("Title:       %s\n", t.Title)
	fmt.Printf("Status:      %s\n", statusCell(t))
	fmt.Printf("Priority:    %d\n", t.Priority)
	fmt.Printf("Due:         %s\n", dueString(t))
	if t.Description != "" {
		fmt.Printf("Description: %s\n", t.Description)
	}
	if t.Tags != "" {
		fmt.Printf("Tags:        %s\n", t.Tags)
	}
	fmt.Printf("Created At:  %s\n", t.CreatedAt.Format(timestampFormat))
	fmt.Printf("Updated At:  %s\n", t.UpdatedAt.Format(timestampFormat))
}

func printTaskListTable(tasks []*model.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRI\tDUE\tTITLE\tTAGS")
	for _, t := range tasks {
		title := t.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
			t.ID,
			statusCell(t),
			t.Priority,
			dueString(t),
			title,
			t.Tags,
		)
	}
	w.Flush()
}
