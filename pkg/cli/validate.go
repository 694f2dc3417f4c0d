package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/openapi"
	"github.com/getmockd/xmlbridge/pkg/xmlnav"
)

// ValidateOutput is the --json result of `xmlbridge validate`.
type ValidateOutput struct {
	Valid  bool            `json:"valid"`
	Issues []openapi.Issue `json:"issues"`
}

var errValidationFailed = errors.New("validation failed")

func newValidateCmd(a *app) *cobra.Command {
	var specPath, xmlPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI document or an XML file",
		Long: `Validate an OpenAPI document (syntax, local references and OpenAPI 3 rules)
and/or check that an XML file parses. Exits non-zero when problems are found.`,
		Example: `  xmlbridge validate --spec api.yaml
  xmlbridge validate --xml order.xml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if specPath == "" && xmlPath == "" {
				return fmt.Errorf("--spec or --xml is required")
			}

			issues := []openapi.Issue{}
			if specPath != "" {
				doc, err := openapi.LoadFile(specPath)
				if err != nil {
					issues = append(issues, openapi.Issue{Message: err.Error()})
				} else {
					issues = append(issues, doc.Validate(cmd.Context())...)
				}
			}
			if xmlPath != "" {
				data, err := a.readInput(xmlPath)
				if err != nil {
					return err
				}
				if _, err := xmlnav.Parse(xmlnav.CleanLogPayload(string(data))); err != nil {
					issues = append(issues, openapi.Issue{Pointer: "xml", Message: err.Error()})
				}
			}

			result := ValidateOutput{Valid: len(issues) == 0, Issues: issues}
			err := a.printResult(cmd, result, func() error {
				out := cmd.OutOrStdout()
				if result.Valid {
					fmt.Fprintln(out, "Valid")
					return nil
				}
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s\n", issue)
				}
				return nil
			})
			if err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("%w: %d issue(s)", errValidationFailed, len(issues))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "OpenAPI document to validate")
	cmd.Flags().StringVar(&xmlPath, "xml", "", "XML file to check, or - for stdin")
	return cmd
}
