package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deidaraiorek/deistem/algorithm"
)

func newAlgorithmsCmd() *cobra.Command {
	var aliases bool
	c := &cobra.Command{
		Use:   "algorithms",
		Short: "List the available stemming algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := algorithm.Default().Algorithms()
			if aliases {
				names = algorithm.Default().Names()
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	c.Flags().BoolVar(&aliases, "aliases", false, "Include aliases in the listing.")
	return c
}
