package cli

import (
	"errors"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

func newCreateCmd() *cobra.Command {
	var (
		draft  types.Entity
		slugID bool
	)

	cmd := &cobra.Command{
		Use:   "create <collection>",
		Short: "Create an entity",
		Long: `Create sends a new entity to the gateway and prints the confirmed
entity, including its assigned id. Without --id the backend assigns one;
--slug-id derives it from the name instead.

Example:
  heroes create heroes --name Aslaug --description "warrior queen"
  heroes create villains --name "The Seer" --slug-id`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if draft.Name == "" {
				return errors.New("--name is required")
			}
			if slugID {
				if draft.ID != "" {
					return errors.New("--id and --slug-id are mutually exclusive")
				}
				draft.ID = slug.Make(draft.Name)
			}
			return withApp(cmd, func(a *app) error {
				created, err := a.store.CreateOne(cmd.Context(), args[0], draft)
				if err != nil {
					return err
				}
				return printEntity(a.out, created)
			})
		},
	}

	cmd.Flags().StringVar(&draft.ID, "id", "", "entity id (default: assigned by the backend)")
	cmd.Flags().StringVar(&draft.Name, "name", "", "entity name")
	cmd.Flags().StringVar(&draft.Description, "description", "", "entity description")
	cmd.Flags().BoolVar(&slugID, "slug-id", false, "derive the id from the name")
	return cmd
}
