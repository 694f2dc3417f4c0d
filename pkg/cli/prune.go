package cli

import (
	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/cli/internal/output"
	"github.com/getmockd/xmlbridge/pkg/value"
)

func newPruneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prune [FILE|-]",
		Short: "Remove empty fields from a JSON document",
		Long: `Remove empty strings, nulls, empty arrays and empty objects from a JSON
document, recursively. Numbers and booleans are always kept. A document that
prunes away entirely prints as {}.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			data, err := a.readInput(path)
			if err != nil {
				return err
			}
			v, err := value.Decode(data)
			if err != nil {
				return err
			}
			return output.JSON(cmd.OutOrStdout(), value.PruneOrEmpty(v))
		},
	}
}
