package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/cli/templates"
	"github.com/getmockd/xmlbridge/pkg/cliconfig"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		template string
		outPath  string
		force    bool
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter .xmlbridgerc.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				fmt.Fprint(cmd.OutOrStdout(), templates.FormatList())
				return nil
			}
			data, err := templates.Get(template)
			if err != nil {
				return err
			}
			if !force {
				if _, err := os.Stat(outPath); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
				}
			}
			if err := writeOutput(cmd.OutOrStdout(), outPath, data); err != nil {
				return err
			}
			if outPath != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Created %s from the %q template\n", outPath, template)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "default", "Starter template")
	cmd.Flags().StringVarP(&outPath, "output", "o", cliconfig.LocalConfigFileNames[0], "Output file, or - for stdout")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&list, "list", false, "List available templates")
	return cmd
}
