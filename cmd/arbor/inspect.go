package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/demo"
	"github.com/aretw0/arbor/internal/presentation/tui"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Describe the tree structure",
	Long:  `Renders the selected demo tree as a nested list. Output is styled when stdout is a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tree, err := demo.Build(cfg.Demo, io.Discard, nil)
		if err != nil {
			return err
		}

		md := tui.TreeMarkdown(cfg.Demo, tree.Inspect())
		out := cmd.OutOrStdout()
		if !tui.IsTerminal(out) {
			fmt.Fprint(out, md)
			return nil
		}

		width, _ := cmd.Flags().GetInt("width")
		render, err := tui.NewRenderer(width)
		if err != nil {
			return err
		}
		styled, err := render(md)
		if err != nil {
			return err
		}
		fmt.Fprint(out, styled)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Int("width", 80, "Wrap width for styled output")
}
