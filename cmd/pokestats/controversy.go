package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rootasjey/pokestats/internal/bootstrap"
	"github.com/rootasjey/pokestats/internal/controversy"
	"github.com/rootasjey/pokestats/internal/resolver"
)

// voteFunc matches the resolver method expressions, e.g. (*resolver.Resolver).Like.
type voteFunc func(r *resolver.Resolver, ctx context.Context, id int) (controversy.Record, error)

func newControversyCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "controversy",
		Short: "Read or vote on a Pokémon's likes and dislikes",
	}
	var output OutputFormat
	addOutputFlag(command.PersistentFlags(), &output)

	command.AddCommand(
		newVoteCommand("get ID", "Show the votes of a Pokémon", &output, (*resolver.Resolver).Controversy),
		newVoteCommand("like ID", "Add a like", &output, (*resolver.Resolver).Like),
		newVoteCommand("dislike ID", "Add a dislike", &output, (*resolver.Resolver).Dislike),
	)
	return command
}

func newVoteCommand(use, short string, output *OutputFormat, vote voteFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			return withComponents(cmd.Context(), func(c *bootstrap.Components) error {
				record, err := vote(c.Resolver, cmd.Context(), id)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), *output, record, func(w io.Writer) error {
					if err := header(w, "#%d %s", record.ID, record.Name); err != nil {
						return err
					}
					_, err := fmt.Fprintf(w, "likes:    %d\ndislikes: %d\n", record.Likes, record.Dislikes)
					return err
				})
			})
		},
	}
}
