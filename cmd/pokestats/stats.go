package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rootasjey/pokestats/internal/bootstrap"
	"github.com/rootasjey/pokestats/internal/resolver"
)

func newStatsCommand() *cobra.Command {
	var (
		output  OutputFormat
		noCache bool
	)
	command := &cobra.Command{
		Use:   "stats TYPE1 [TYPE2]",
		Short: "Average base stats of the Pokémon having every given type",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var type2 string
			if len(args) == 2 {
				type2 = args[1]
			}
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				response, err := c.Resolver.AverageStats(cmd.Context(), args[0], type2, !noCache)
				if err != nil {
					return fmt.Errorf("AverageStats() > %w", err)
				}
				return render(cmd.OutOrStdout(), output, response, func(w io.Writer) error {
					return writeStats(w, response)
				})
			})
		},
	}
	flags := command.Flags()
	addOutputFlag(flags, &output)
	flags.BoolVar(&noCache, "no-cache", false, "recompute even when a fresh cached aggregate exists")
	return command
}

func writeStats(w io.Writer, response resolver.StatsResponse) error {
	if response.Error != "" {
		_, err := warningColor.Fprintf(w, "stats unavailable: %s\n", response.Error)
		return err
	}
	if err := header(w, "%v (%d Pokémon)", response.Types, response.PokemonCount); err != nil {
		return err
	}
	avg := response.Avg
	_, err := fmt.Fprintf(w,
		"hp:              %d\nattack:          %d\ndefense:         %d\nspecial-attack:  %d\nspecial-defense: %d\nspeed:           %d\nlast updated:    %s\n",
		avg.HP, avg.Attack, avg.Defense, avg.SpecialAttack, avg.SpecialDefense, avg.Speed, response.Meta.LastUpdated)
	return err
}
