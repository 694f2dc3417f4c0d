package cliconfig

// DefaultListenAddr is the address `xmlbridge serve` binds to.
const DefaultListenAddr = ":8089"

// DefaultLogLevel is the default minimum log level.
const DefaultLogLevel = "info"

// DefaultLogFormat is the default console log format.
const DefaultLogFormat = "text"

// DefaultHostVariable is the Postman variable holding the base URL.
const DefaultHostVariable = "ApigeeHost"

// DefaultTokenVariable is the Postman variable holding the bearer token.
const DefaultTokenVariable = "bearerToken"

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		HostVariable:  DefaultHostVariable,
		TokenVariable: DefaultTokenVariable,
		ListenAddr:    DefaultListenAddr,
		Sources:       make(map[string]string),
	}

	for _, key := range []string{"logLevel", "logFormat", "hostVariable", "tokenVariable", "prune", "listenAddr"} {
		cfg.Sources[key] = SourceDefault
	}

	return cfg
}
