package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mesh-intelligence/herostore/pkg/types"
)

// printEntities writes entities as JSON or as an aligned table.
func printEntities(w io.Writer, entities types.Collection) error {
	if flags.jsonMode {
		return printJSON(w, entities)
	}
	if len(entities) == 0 {
		fmt.Fprintln(w, "no entities")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, e := range entities {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, e.Name, e.Description)
	}
	return tw.Flush()
}

// printEntity writes one entity as JSON or as key: value lines.
func printEntity(w io.Writer, e types.Entity) error {
	if flags.jsonMode {
		return printJSON(w, e)
	}
	fmt.Fprintf(w, "id:          %s\nname:        %s\ndescription: %s\n", e.ID, e.Name, e.Description)
	return nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}
