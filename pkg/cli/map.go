package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/cli/internal/output"
	"github.com/getmockd/xmlbridge/pkg/mapper"
	"github.com/getmockd/xmlbridge/pkg/xmlnav"
)

// MapOutput is the --json result of mapping one XML file.
type MapOutput struct {
	File        string              `json:"file"`
	Result      any                 `json:"result"`
	Payload     string              `json:"payload,omitempty"`
	Diagnostics []mapper.Diagnostic `json:"diagnostics"`
}

func newMapCmd(a *app) *cobra.Command {
	var (
		specPath  string
		xmlPath   string
		schemaPtr string
		operation string
		prune     bool
		selectExp string
		property  string
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map an XML document onto an OpenAPI schema",
		Long: `Map an XML document onto an OpenAPI schema and print the JSON result.

The target is a schema (--schema Customer or --schema '#/components/schemas/Customer')
or the JSON request body of an operation (--operation createCustomer).
--xml accepts a glob such as 'logs/**/*.xml' to map several files.`,
		Example: `  xmlbridge map --spec api.yaml --xml order.xml --operation createOrder
  xmlbridge map --spec api.yaml --xml 'logs/**/*.xml' --schema Order --prune --json
  xmlbridge map --spec api.yaml --xml order.xml --schema Order --select '$.lines[*].sku'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadSpec(specPath)
			if err != nil {
				return err
			}
			schema, err := doc.TargetSchema(schemaPtr, operation)
			if err != nil {
				return err
			}
			if xmlPath == "" {
				return fmt.Errorf("--xml is required")
			}
			files, err := expandInputs(xmlPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("prune") {
				prune = a.cfg.Prune
			}

			results := make([]MapOutput, 0, len(files))
			for _, file := range files {
				data, err := a.readInput(file)
				if err != nil {
					return err
				}
				res, err := mapper.Map(doc, schema, xmlnav.CleanLogPayload(string(data)), mapper.Options{
					Prune:    prune,
					Property: property,
					Logger:   a.log.With("file", file),
				})
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}

				result := res.Value
				if selectExp != "" {
					if result, err = mapper.Select(res.Value, selectExp); err != nil {
						return err
					}
				}
				diags := res.Diagnostics
				if diags == nil {
					diags = []mapper.Diagnostic{}
				}
				results = append(results, MapOutput{File: file, Result: result, Payload: res.Payload, Diagnostics: diags})
			}

			var data any = results
			if len(results) == 1 {
				data = results[0]
			}
			return a.printResult(cmd, data, func() error {
				out := cmd.OutOrStdout()
				for _, r := range results {
					if len(results) > 1 {
						fmt.Fprintf(out, "# %s\n", r.File)
					}
					for _, d := range r.Diagnostics {
						output.Warn(cmd.ErrOrStderr(), "%s: %s", r.File, d)
					}
					if err := output.JSON(out, r.Result); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "OpenAPI document (JSON or YAML)")
	cmd.Flags().StringVar(&xmlPath, "xml", "", "XML file, glob, or - for stdin")
	cmd.Flags().StringVar(&schemaPtr, "schema", "", "Target schema name or JSON pointer")
	cmd.Flags().StringVar(&operation, "operation", "", "Target the request body of this operation")
	cmd.Flags().BoolVar(&prune, "prune", false, "Remove empty strings, nulls and empty containers")
	cmd.Flags().StringVar(&selectExp, "select", "", "JSONPath applied to the mapped result")
	cmd.Flags().StringVar(&property, "property", "", "Property name framing a top-level array schema (default: the payload element's name)")
	cmd.MarkFlagsMutuallyExclusive("schema", "operation")
	return cmd
}
