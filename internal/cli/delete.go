package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, id := args[0], args[1]
			return withApp(cmd, func(a *app) error {
				if err := a.store.DeleteOne(cmd.Context(), collection, types.Entity{ID: id}); err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(a.out, map[string]string{"deleted": id})
				}
				fmt.Fprintf(a.out, "deleted %s %s\n", collection, id)
				return nil
			})
		},
	}
}
