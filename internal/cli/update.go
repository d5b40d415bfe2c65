package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

func newUpdateCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "update <collection> <id>",
		Short: "Update an entity",
		Long: `Update changes the name and/or description of an entity. Fields not
given keep the value currently held by the backend.

Example:
  heroes update heroes HeroAslaug --description "queen of Norway"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, id := args[0], args[1]
			return withApp(cmd, func(a *app) error {
				if _, err := a.store.FetchAll(cmd.Context(), collection); err != nil {
					return err
				}

				target, ok := a.store.Find(collection, id)
				if !ok {
					target = types.Entity{ID: id}
				}
				if cmd.Flags().Changed("name") {
					target.Name = name
				}
				if cmd.Flags().Changed("description") {
					target.Description = description
				}

				updated, err := a.store.UpdateOne(cmd.Context(), collection, target)
				if err != nil {
					return err
				}
				return printEntity(a.out, updated)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	return cmd
}
