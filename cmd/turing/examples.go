package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/turing/pkg/registry"
	"github.com/spf13/cobra"
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List the built-in machines",
	Long:  `Lists the machines that can be started with --example or loaded in the REPL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, e := range registry.Default().List() {
			fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(examplesCmd)
}
