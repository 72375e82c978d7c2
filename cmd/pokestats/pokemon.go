package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rootasjey/pokestats/internal/bootstrap"
	"github.com/rootasjey/pokestats/internal/pokemon"
)

func newPokemonCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "pokemon",
		Short: "Full Pokémon records by id or name, straight from the upstream",
	}
	var output OutputFormat
	addOutputFlag(command.PersistentFlags(), &output)

	command.AddCommand(
		&cobra.Command{
			Use:   "id ID",
			Short: "One Pokémon by id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
					return renderPokemon(cmd.OutOrStdout(), output, c.Resolver.PokemonByID(cmd.Context(), ids[0]))
				})
			},
		},
		&cobra.Command{
			Use:   "ids ID...",
			Short: "Every id, in order",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
					return renderPokemon(cmd.OutOrStdout(), output, c.Resolver.PokemonsByIDs(cmd.Context(), ids))
				})
			},
		},
		&cobra.Command{
			Use:   "name NAME",
			Short: "One Pokémon by name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
					return renderPokemon(cmd.OutOrStdout(), output, c.Resolver.PokemonByName(cmd.Context(), args[0]))
				})
			},
		},
		&cobra.Command{
			Use:   "names NAME...",
			Short: "Every name, in order",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
					return renderPokemon(cmd.OutOrStdout(), output, c.Resolver.PokemonsByNames(cmd.Context(), args))
				})
			},
		},
	)
	return command
}

func renderPokemon(w io.Writer, output OutputFormat, records []pokemon.Record) error {
	return render(w, output, records, func(w io.Writer) error {
		for _, record := range records {
			if err := writePokemonRecord(w, record); err != nil {
				return err
			}
		}
		return nil
	})
}

func writePokemonRecord(w io.Writer, record pokemon.Record) error {
	id := "-"
	if record.ID != nil {
		id = strconv.Itoa(*record.ID)
	}
	if err := header(w, "#%s %s", id, orDash(record.Name)); err != nil {
		return err
	}
	if record.Species == nil {
		_, err := warningColor.Fprintln(w, "  not found")
		return err
	}

	types := make([]string, 0, len(record.Types))
	for _, slot := range record.Types {
		types = append(types, slot.Type.Name)
	}
	abilities := make([]string, 0, len(record.Abilities))
	for _, ability := range record.Abilities {
		name := ability.Ability.Name
		if ability.IsHidden {
			name += " (hidden)"
		}
		abilities = append(abilities, name)
	}

	_, err := fmt.Fprintf(w, "  types:     %s\n  abilities: %s\n  height:    %d\n  weight:    %d\n  moves:     %d\n",
		strings.Join(types, ", "), strings.Join(abilities, ", "),
		deref(record.Height), deref(record.Weight), len(record.Moves))
	return err
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
