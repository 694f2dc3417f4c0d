package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	mergeString(target, &target.LogLevel, source.LogLevel, "logLevel", sourceType)
	mergeString(target, &target.LogFormat, source.LogFormat, "logFormat", sourceType)
	mergeString(target, &target.HostVariable, source.HostVariable, "hostVariable", sourceType)
	mergeString(target, &target.TokenVariable, source.TokenVariable, "tokenVariable", sourceType)
	mergeString(target, &target.ListenAddr, source.ListenAddr, "listenAddr", sourceType)
	mergeString(target, &target.DatasetFile, source.DatasetFile, "datasetFile", sourceType)
	mergeString(target, &target.DatasetToken, source.DatasetToken, "datasetToken", sourceType)
	mergeString(target, &target.DatasetVersion, source.DatasetVersion, "datasetVersion", sourceType)

	if boolIsSet(source, "prune") {
		target.Prune = source.Prune
		target.Sources["prune"] = sourceType
	}
	if source.DefaultHeaders != nil {
		target.DefaultHeaders = source.DefaultHeaders
		target.Sources["defaultHeaders"] = sourceType
	}
	if source.AllowedOrigins != nil {
		target.AllowedOrigins = source.AllowedOrigins
		target.Sources["allowedOrigins"] = sourceType
	}
}

func mergeString(target *CLIConfig, dst *string, src, key, sourceType string) {
	if src == "" {
		return
	}
	*dst = src
	target.Sources[key] = sourceType
}

// boolIsSet reports whether a boolean field identified by its YAML key was
// explicitly set in the source config. Without SetFields (programmatic
// configs) only true counts as set.
func boolIsSet(cfg *CLIConfig, yamlKey string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	switch yamlKey {
	case "prune":
		return cfg.Prune
	}
	return false
}
