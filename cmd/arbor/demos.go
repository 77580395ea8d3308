package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor/internal/demo"
)

var demosCmd = &cobra.Command{
	Use:   "demos",
	Short: "List the available demo trees",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range demo.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(demosCmd)
}
