package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rootasjey/pokestats/internal/bootstrap"
)

func newListCommand() *cobra.Command {
	var (
		output     OutputFormat
		start, end int
	)
	command := &cobra.Command{
		Use:   "list",
		Short: "Page through every Pokémon with its cached sprites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				page, err := c.Resolver.List(cmd.Context(), start, end)
				if err != nil {
					return fmt.Errorf("List() > %w", err)
				}
				return render(cmd.OutOrStdout(), output, page, func(w io.Writer) error {
					if err := header(w, "%d-%d (%d)", page.Start, page.End, page.Count); err != nil {
						return err
					}
					for _, item := range page.Results {
						front := "-"
						if item.Sprites != nil {
							front = orDash(item.Sprites.DefaultFront)
						}
						if _, err := fmt.Fprintf(w, "%4d  %-20s %s\n", item.ID, item.Name, front); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
	flags := command.Flags()
	addOutputFlag(flags, &output)
	flags.IntVar(&start, "start", 1, "first position, starting at 1")
	flags.IntVar(&end, "end", 0, "last position, 0 for every entry")
	return command
}
