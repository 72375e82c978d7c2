package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rootasjey/pokestats/internal/bootstrap"
)

func newErrorsCommand() *cobra.Command {
	var (
		output    OutputFormat
		withStack bool
	)
	command := &cobra.Command{
		Use:   "errors",
		Short: "Show failures recorded in the error log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				entries, err := c.ErrorLog.Entries(cmd.Context())
				if err != nil {
					return fmt.Errorf("ErrorLog.Entries() > %w", err)
				}
				return render(cmd.OutOrStdout(), output, entries, func(w io.Writer) error {
					keys := make([]string, 0, len(entries))
					for key := range entries {
						keys = append(keys, key)
					}
					// Millisecond keys of equal length sort chronologically.
					sort.Strings(keys)
					for _, key := range keys {
						entry := entries[key]
						if err := header(w, "%s", entry.UTC); err != nil {
							return err
						}
						if _, err := fmt.Fprintln(w, entry.Message); err != nil {
							return err
						}
						if withStack {
							if _, err := fmt.Fprintln(w, entry.Stack); err != nil {
								return err
							}
						}
					}
					return nil
				})
			})
		},
	}
	flags := command.Flags()
	addOutputFlag(flags, &output)
	flags.BoolVar(&withStack, "stack", false, "include stack traces")
	return command
}
