package cli

import (
	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/cli/internal/output"
)

func newExampleCmd(a *app) *cobra.Command {
	var specPath, schemaPtr, operation string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example value generated from a schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadSpec(specPath)
			if err != nil {
				return err
			}
			schema, err := doc.TargetSchema(schemaPtr, operation)
			if err != nil {
				return err
			}
			return output.JSON(cmd.OutOrStdout(), doc.GenerateExample(schema))
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "OpenAPI document (JSON or YAML)")
	cmd.Flags().StringVar(&schemaPtr, "schema", "", "Schema name or JSON pointer")
	cmd.Flags().StringVar(&operation, "operation", "", "Use the request body schema of this operation")
	cmd.MarkFlagsMutuallyExclusive("schema", "operation")
	return cmd
}
