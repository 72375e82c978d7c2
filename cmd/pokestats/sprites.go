package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rootasjey/pokestats/internal/bootstrap"
	"github.com/rootasjey/pokestats/internal/sprites"
)

func newSpritesCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "sprites",
		Short: "Sprite URLs by Pokémon id or name",
	}
	var output OutputFormat
	addOutputFlag(command.PersistentFlags(), &output)

	command.AddCommand(
		&cobra.Command{
			Use:   "id ID",
			Short: "Sprites for one id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
					return renderSprites(cmd.OutOrStdout(), output, c.Resolver.SpritesByID(cmd.Context(), ids[0]))
				})
			},
		},
		&cobra.Command{
			Use:   "ids ID...",
			Short: "Sprites for each id, in order",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseIDs(args)
				if err != nil {
					return err
				}
				return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
					return renderSprites(cmd.OutOrStdout(), output, c.Resolver.SpritesByIDs(cmd.Context(), ids))
				})
			},
		},
		&cobra.Command{
			Use:   "name NAME",
			Short: "Sprites for one name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
					return renderSprites(cmd.OutOrStdout(), output, c.Resolver.SpritesByName(cmd.Context(), args[0]))
				})
			},
		},
		&cobra.Command{
			Use:   "names NAME...",
			Short: "Sprites for each name, in order",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
					return renderSprites(cmd.OutOrStdout(), output, c.Resolver.SpritesByNames(cmd.Context(), args))
				})
			},
		},
	)
	return command
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func renderSprites(w io.Writer, output OutputFormat, records []sprites.Record) error {
	return render(w, output, records, func(w io.Writer) error {
		for _, record := range records {
			if err := writeSpriteRecord(w, record); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSpriteRecord(w io.Writer, record sprites.Record) error {
	id := "-"
	if record.ID != nil {
		id = strconv.Itoa(*record.ID)
	}
	if err := header(w, "#%s %s", id, orDash(record.Name)); err != nil {
		return err
	}
	if record.Sprites == nil {
		_, err := warningColor.Fprintln(w, "  no sprites")
		return err
	}
	s := record.Sprites
	_, err := fmt.Fprintf(w, "  front:       %s\n  back:        %s\n  shiny front: %s\n  shiny back:  %s\n",
		orDash(s.DefaultFront), orDash(s.DefaultBack), orDash(s.DefaultShinyFront), orDash(s.DefaultShinyBack))
	return err
}
