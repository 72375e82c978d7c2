package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rootasjey/pokestats/internal/resolver"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the API version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), resolver.Version)
			return err
		},
	}
}
