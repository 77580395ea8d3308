package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/demo"
	"github.com/aretw0/arbor/internal/presentation/graph"
	httpadapter "github.com/aretw0/arbor/pkg/adapters/http"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the tree as a Mermaid diagram",
	Long: `Prints a Mermaid flowchart (graph TD) of the selected demo tree. With --ticks the tree
is ticked first and nodes are colored by their last result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ticks, _ := cmd.Flags().GetInt("ticks")

		rec := httpadapter.NewRecorder()
		tree, err := demo.Build(cfg.Demo, io.Discard, nil, arbor.WithLifecycleHooks(rec.Hooks()))
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if ticks > 0 {
			for range ticks {
				if _, err := tree.Execute(); err != nil {
					return err
				}
			}
			overlay = &graph.Overlay{States: rec.Last()}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(tree.Inspect(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Int("ticks", 0, "Tick the tree this many times and overlay the last results")
}
