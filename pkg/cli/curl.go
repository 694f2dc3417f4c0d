package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/cli/internal/flags"
	"github.com/getmockd/xmlbridge/pkg/cli/internal/output"
	"github.com/getmockd/xmlbridge/pkg/cli/internal/parse"
	"github.com/getmockd/xmlbridge/pkg/openapi"
	"github.com/getmockd/xmlbridge/pkg/portability"
	"github.com/getmockd/xmlbridge/pkg/request"
)

// CURLOutput is the --json result of `xmlbridge curl`.
type CURLOutput struct {
	CURL    string           `json:"curl"`
	Mapping *request.Mapping `json:"mapping"`
	Issues  []openapi.Issue  `json:"issues,omitempty"`
}

var errNoOperation = errors.New("--operation is required when stdin is not a terminal")

func newCURLCmd(a *app) *cobra.Command {
	var (
		specPath  string
		operation string
		xmlPath   string
		pruned    bool
		validate  bool
		headers   flags.StringSlice
	)

	cmd := &cobra.Command{
		Use:   "curl",
		Short: "Build a cURL command for an operation from an XML log sample",
		Long: `Build a cURL command for an operation. Path, query and header values are
taken from the XML log sample when present, otherwise from the document's
examples and defaults. The request body is the XML mapped onto the operation's
JSON request schema.

Without --operation an interactive picker is shown when running in a terminal.`,
		Example: `  xmlbridge curl --spec api.yaml --operation createOrder --xml order-log.xml
  xmlbridge curl --spec api.yaml --operation createOrder --xml order-log.xml --pruned --validate
  xmlbridge curl --spec api.yaml --operation getOrder -H "X-user: U1"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadSpec(specPath)
			if err != nil {
				return err
			}

			var op *openapi.Operation
			if operation != "" {
				if op, err = doc.FindOperation(operation); err != nil {
					return err
				}
			} else {
				if !a.isTerminal() {
					return errNoOperation
				}
				if op, err = pickOperation(doc.Operations()); err != nil {
					return err
				}
			}

			var xmlText string
			if xmlPath != "" {
				data, err := a.readInput(xmlPath)
				if err != nil {
					return err
				}
				xmlText = string(data)
			}

			extra, err := parse.Headers(headers)
			if err != nil {
				return err
			}
			m := request.Build(doc, op, xmlText, request.Options{Headers: a.headers(), Logger: a.log})
			for _, h := range extra {
				if i := request.IndexHeader(m.Headers, h.Key); i >= 0 {
					m.Headers[i].Value, m.Headers[i].Enabled = h.Value, true
					continue
				}
				m.Headers = append(m.Headers, request.Header{Key: h.Key, Value: h.Value, Enabled: true, Removable: true})
			}

			if !cmd.Flags().Changed("pruned") {
				pruned = a.cfg.Prune
			}
			curl, err := portability.BuildCURL(m, portability.CURLOptions{
				HostVariable: a.cfg.HostVariable,
				Pruned:       pruned,
			})
			if err != nil {
				return err
			}

			result := CURLOutput{CURL: curl, Mapping: m}
			if validate && m.HasBody {
				body := m.Body
				if pruned {
					body = m.BodyPruned
				}
				if result.Issues, err = doc.ValidateBody(cmd.Context(), op, body); err != nil {
					return err
				}
			}

			return a.printResult(cmd, result, func() error {
				for _, d := range m.Diagnostics {
					output.Warn(cmd.ErrOrStderr(), "%s", d)
				}
				for _, issue := range result.Issues {
					output.Warn(cmd.ErrOrStderr(), "body does not match schema: %s", issue)
				}
				fmt.Fprintln(cmd.OutOrStdout(), curl)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "OpenAPI document (JSON or YAML)")
	cmd.Flags().StringVar(&operation, "operation", "", "Operation id or \"METHOD /path\"")
	cmd.Flags().StringVar(&xmlPath, "xml", "", "XML log sample, or - for stdin")
	cmd.Flags().BoolVar(&pruned, "pruned", false, "Send the body with empty fields removed")
	cmd.Flags().BoolVar(&validate, "validate", false, "Check the body against the request schema")
	cmd.Flags().VarP(&headers, "header", "H", "Extra or overriding header \"Key: Value\" (repeatable)")
	return cmd
}

func pickOperation(ops []*openapi.Operation) (*openapi.Operation, error) {
	if len(ops) == 0 {
		return nil, errors.New("the document has no operations")
	}

	options := make([]huh.Option[int], 0, len(ops))
	for i, op := range ops {
		label := fmt.Sprintf("%-7s %s", strings.ToUpper(op.Method), op.Path)
		if op.OperationID != "" {
			label += "  (" + op.OperationID + ")"
		}
		options = append(options, huh.NewOption(label, i))
	}

	var choice int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which operation?").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return nil, err
	}
	return ops[choice], nil
}
