package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/flowtask/internal/graph"
	"github.com/groblegark/flowtask/internal/interchange"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the database with a previously exported document",
	Long: `Validate the document against the interchange schema, check that every
dependency references a listed task and that the graph is acyclic, then
replace all existing tasks and dependencies. Task ids are preserved.
Pass - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			in = f
		}

		doc, err := interchange.Decode(in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ids := make([]int64, 0, len(doc.Tasks))
		seen := make(map[int64]bool, len(doc.Tasks))
		for _, t := range doc.Tasks {
			if seen[t.ID] {
				fmt.Fprintf(os.Stderr, "Error: duplicate task id %d\n", t.ID)
				os.Exit(1)
			}
			seen[t.ID] = true
			ids = append(ids, t.ID)
		}
		for _, pair := range doc.Deps {
			for _, id := range pair {
				if !seen[id] {
					fmt.Fprintf(os.Stderr, "Error: dependency references unknown task %d\n", id)
					os.Exit(1)
				}
			}
		}

		deps := doc.Dependencies()
		if _, err := graph.TopoSort(ids, graph.EdgesOf(deps)); err != nil {
			if errors.Is(err, graph.ErrGraphInconsistent) {
				fmt.Fprintln(os.Stderr, "Error: dependency graph contains a cycle")
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		if err := st.ReplaceAll(ctx, doc.Tasks, deps); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		recordEvent(ctx, st, "imported", 0, struct {
			Tasks int `json:"tasks"`
			Deps  int `json:"deps"`
		}{len(doc.Tasks), len(doc.Deps)})

		fmt.Printf("Imported %d tasks and %d dependencies\n", len(doc.Tasks), len(doc.Deps))
		return nil
	},
}
