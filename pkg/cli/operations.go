package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/cli/internal/output"
)

// OperationSummary is one row of `xmlbridge operations`.
type OperationSummary struct {
	Name    string   `json:"name"`
	Method  string   `json:"method"`
	Path    string   `json:"path"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	HasBody bool     `json:"hasBody"`
}

func newOperationsCmd(a *app) *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:     "operations",
		Aliases: []string{"ops"},
		Short:   "List the operations of an OpenAPI document",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadSpec(specPath)
			if err != nil {
				return err
			}

			ops := doc.Operations()
			rows := make([]OperationSummary, 0, len(ops))
			for _, op := range ops {
				rows = append(rows, OperationSummary{
					Name:    op.Name(),
					Method:  strings.ToUpper(op.Method),
					Path:    op.Path,
					Summary: op.Summary,
					Tags:    op.Tags,
					HasBody: op.HasBody() && op.RequestBody != nil,
				})
			}

			return a.printResult(cmd, rows, func() error {
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No operations found")
					return nil
				}
				w := output.Table(cmd.OutOrStdout())
				fmt.Fprintln(w, "METHOD\tPATH\tNAME\tSUMMARY")
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Method, r.Path, r.Name, r.Summary)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "OpenAPI document (JSON or YAML)")
	return cmd
}
