package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <collection> <term...>",
		Short: "List entities whose name or description matches a term",
		Long: `Search fetches the collection and keeps the entities whose name or
description contains the term, ignoring case.

Example:
  heroes search heroes queen`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, term := args[0], strings.Join(args[1:], " ")
			return withApp(cmd, func(a *app) error {
				if _, err := a.store.FetchAll(cmd.Context(), collection); err != nil {
					return err
				}
				return printEntities(a.out, a.store.Search(collection, term))
			})
		},
	}
}
