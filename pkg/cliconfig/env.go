package cliconfig

import (
	"os"
	"strings"
)

// Environment variable names
const (
	EnvConfig         = "XMLBRIDGE_CONFIG"
	EnvLogLevel       = "XMLBRIDGE_LOG_LEVEL"
	EnvLogFormat      = "XMLBRIDGE_LOG_FORMAT"
	EnvHostVariable   = "XMLBRIDGE_HOST_VARIABLE"
	EnvTokenVariable  = "XMLBRIDGE_TOKEN_VARIABLE"
	EnvPrune          = "XMLBRIDGE_PRUNE"
	EnvListenAddr     = "XMLBRIDGE_LISTEN_ADDR"
	EnvAllowedOrigins = "XMLBRIDGE_ALLOWED_ORIGINS"
	EnvDatasetFile    = "XMLBRIDGE_DATASET_FILE"
	EnvDatasetToken   = "XMLBRIDGE_DATASET_TOKEN"
	EnvDatasetVersion = "XMLBRIDGE_DATASET_VERSION"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment.
func LoadEnvConfig(cfg *CLIConfig) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	strs := []struct {
		env string
		key string
		dst *string
	}{
		{EnvLogLevel, "logLevel", &cfg.LogLevel},
		{EnvLogFormat, "logFormat", &cfg.LogFormat},
		{EnvHostVariable, "hostVariable", &cfg.HostVariable},
		{EnvTokenVariable, "tokenVariable", &cfg.TokenVariable},
		{EnvListenAddr, "listenAddr", &cfg.ListenAddr},
		{EnvDatasetFile, "datasetFile", &cfg.DatasetFile},
		{EnvDatasetToken, "datasetToken", &cfg.DatasetToken},
		{EnvDatasetVersion, "datasetVersion", &cfg.DatasetVersion},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.dst = v
			cfg.Sources[s.key] = SourceEnv
		}
	}

	// XMLBRIDGE_PRUNE
	if v := os.Getenv(EnvPrune); v != "" {
		cfg.Prune = v == "true" || v == "1" || v == "yes"
		cfg.Sources["prune"] = SourceEnv
	}

	// XMLBRIDGE_ALLOWED_ORIGINS is a comma separated list
	if v := os.Getenv(EnvAllowedOrigins); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
		cfg.Sources["allowedOrigins"] = SourceEnv
	}
}

// GetConfigFromEnv returns the config file path from the environment.
// Returns empty string if not set.
func GetConfigFromEnv() string {
	return os.Getenv(EnvConfig)
}
