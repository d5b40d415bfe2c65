package cli

import (
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <collection>",
		Short: "List every entity of a collection",
		Long: `List fetches the collection through the gateway and prints it in
backend order.

Example:
  heroes list heroes
  heroes list villains --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				entities, err := a.store.FetchAll(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printEntities(a.out, entities)
			})
		},
	}
}
