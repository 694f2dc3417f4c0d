// Package cliconfig provides configuration types and loading for the xmlbridge CLI.
package cliconfig

// CLIConfig represents the complete configuration for the xmlbridge CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.xmlbridgerc.yaml in current directory)
// 4. Global config file (~/.config/xmlbridge/config.yaml)
// 5. Default values (lowest priority)
type CLIConfig struct {
	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`

	// Export settings
	HostVariable   string          `yaml:"hostVariable" json:"hostVariable"`
	TokenVariable  string          `yaml:"tokenVariable" json:"tokenVariable"`
	Prune          bool            `yaml:"prune" json:"prune"`
	DefaultHeaders []HeaderDefault `yaml:"defaultHeaders,omitempty" json:"defaultHeaders,omitempty"`

	// Server settings
	ListenAddr     string   `yaml:"listenAddr" json:"listenAddr"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" json:"allowedOrigins,omitempty"`
	DatasetFile    string   `yaml:"datasetFile,omitempty" json:"datasetFile,omitempty"`
	DatasetToken   string   `yaml:"datasetToken,omitempty" json:"-"`
	DatasetVersion string   `yaml:"datasetVersion,omitempty" json:"datasetVersion,omitempty"`

	// Source tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records the keys present in a loaded file, so an explicit
	// false can override a true from a lower layer.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// HeaderDefault replaces the built-in base header set when configured.
type HeaderDefault struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFile    = "file"
	SourceFlag    = "flag"
)
