package cli

import (
	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/cli/internal/output"
	"github.com/getmockd/xmlbridge/pkg/openapi"
)

func newFixYAMLCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "fix-yaml FILE",
		Short: "Repair common hand-editing mistakes in a YAML document",
		Long: `Repair common hand-editing mistakes in a YAML document: tabs become two
spaces, "key value" lines gain their missing colon, non-printable characters
are dropped and runs of blank lines collapse to one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readInput(args[0])
			if err != nil {
				return err
			}
			fixed := openapi.FixYAML(string(data))

			if res := openapi.ValidateYAML([]byte(fixed)); !res.Valid {
				output.Warn(cmd.ErrOrStderr(), "result is still not valid YAML: %s", res.Error)
			}
			if outPath == "" {
				outPath = "-"
			}
			if err := writeOutput(cmd.OutOrStdout(), outPath, []byte(fixed)); err != nil {
				return err
			}
			if outPath != "-" {
				a.log.Info("wrote fixed YAML", "file", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
