package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/cli/help"
)

func newTopicsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "topics [TOPIC]",
		Short: "Show background help on matching, headers or config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Available topics:\n%s", help.ListTopics())
				return nil
			}
			content, err := help.GetTopic(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
}
