package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/cliconfig"
)

// ConfigOutput is the --json result of `xmlbridge config`.
type ConfigOutput struct {
	Config  *cliconfig.CLIConfig `json:"config"`
	Sources map[string]string    `json:"sources"`
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			return a.printResult(cmd, ConfigOutput{Config: cfg, Sources: cfg.Sources}, func() error {
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, "Effective Configuration:")
				fmt.Fprintln(w)

				printConfigValue(w, "logLevel", cfg.LogLevel, cfg.Sources["logLevel"])
				printConfigValue(w, "logFormat", cfg.LogFormat, cfg.Sources["logFormat"])
				printConfigValue(w, "hostVariable", cfg.HostVariable, cfg.Sources["hostVariable"])
				printConfigValue(w, "tokenVariable", cfg.TokenVariable, cfg.Sources["tokenVariable"])
				printConfigValue(w, "prune", cfg.Prune, cfg.Sources["prune"])
				printConfigValue(w, "listenAddr", cfg.ListenAddr, cfg.Sources["listenAddr"])
				if len(cfg.AllowedOrigins) > 0 {
					printConfigValue(w, "allowedOrigins", strings.Join(cfg.AllowedOrigins, ", "), cfg.Sources["allowedOrigins"])
				}
				if len(cfg.DefaultHeaders) > 0 {
					printConfigValue(w, "defaultHeaders", fmt.Sprintf("%d header(s)", len(cfg.DefaultHeaders)), cfg.Sources["defaultHeaders"])
				}
				if cfg.DatasetFile != "" {
					printConfigValue(w, "datasetFile", cfg.DatasetFile, cfg.Sources["datasetFile"])
				}
				if cfg.DatasetToken != "" {
					printConfigValue(w, "datasetToken", "(set)", cfg.Sources["datasetToken"])
				}
				return nil
			})
		},
	}
}

// printConfigValue prints a config value with source annotation.
func printConfigValue(w io.Writer, name string, value any, source string) {
	if source == "" {
		source = cliconfig.SourceDefault
	}
	fmt.Fprintf(w, "  %-16s %v%s\n", name+":", value, formatSource(source))
}

// formatSource formats a source type for display.
func formatSource(source string) string {
	switch source {
	case cliconfig.SourceDefault:
		return "  (default)"
	case cliconfig.SourceEnv:
		return "  (env)"
	case cliconfig.SourceGlobal:
		return "  (global config)"
	case cliconfig.SourceLocal:
		return "  (local config)"
	case cliconfig.SourceFile:
		return "  (--config)"
	case cliconfig.SourceFlag:
		return "  (flag)"
	default:
		return ""
	}
}
