package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Show one entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, id := args[0], args[1]
			return withApp(cmd, func(a *app) error {
				if _, err := a.store.FetchAll(cmd.Context(), collection); err != nil {
					return err
				}
				e, ok := a.store.Find(collection, id)
				if !ok {
					return fmt.Errorf("%s %q: %w", collection, id, types.ErrNotFound)
				}
				return printEntity(a.out, e)
			})
		},
	}
}
