package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/xmlbridge/pkg/cliconfig"
	"github.com/getmockd/xmlbridge/pkg/logging"
	"github.com/getmockd/xmlbridge/pkg/request"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// app holds the state shared by every command of one invocation.
type app struct {
	// Persistent flags available to all subcommands
	jsonOutput bool
	logLevel   string
	logFormat  string
	logFile    string
	configPath string

	cfg     *cliconfig.CLIConfig
	log     *slog.Logger
	closers []io.Closer

	// stdin is read by commands accepting "-".
	stdin io.Reader
}

// NewRootCommand builds the xmlbridge command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "xmlbridge",
		Short: "xmlbridge maps SOAP/XML payloads onto OpenAPI request schemas",
		Long: `xmlbridge converts XML examples (SOAP envelopes, log excerpts) into JSON
request bodies shaped by an OpenAPI schema, without a mapping table.
It also builds Postman collections and cURL commands from the same inputs.

Configuration can be provided via flags, XMLBRIDGE_* environment variables, or a
configuration file. By default, xmlbridge looks for .xmlbridgerc.yaml in the
current directory and ~/.config/xmlbridge/config.yaml.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.close() },
	}

	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Also write JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default .xmlbridgerc.yaml)")

	rootCmd.AddCommand(
		newMapCmd(a),
		newPruneCmd(a),
		newExampleCmd(a),
		newOperationsCmd(a),
		newValidateCmd(a),
		newFixYAMLCmd(a),
		newPostmanCmd(a),
		newCURLCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newInitCmd(a),
		newTopicsCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// Main runs the CLI with os.Args and returns the process exit code.
func Main() int {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// setup loads configuration and builds the logger. Flags win over every
// other source.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := cliconfig.LoadAll(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
		cfg.Sources["logLevel"] = cliconfig.SourceFlag
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
		cfg.Sources["logFormat"] = cliconfig.SourceFlag
	}
	a.cfg = cfg
	a.stdin = cmd.InOrStdin()

	logCfg := logging.DefaultConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logCfg.Format = logging.ParseFormat(cfg.LogFormat)
	if a.logFile != "" {
		f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		a.closers = append(a.closers, f)
		logCfg.Mirror = f
	}
	a.log = logging.New(logCfg)
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

// headers returns the configured base headers, or nil for the built-in set.
func (a *app) headers() []request.Header {
	if len(a.cfg.DefaultHeaders) == 0 {
		return nil
	}
	out := make([]request.Header, 0, len(a.cfg.DefaultHeaders))
	for _, h := range a.cfg.DefaultHeaders {
		out = append(out, request.Header{Key: h.Key, Value: h.Value})
	}
	return out
}
