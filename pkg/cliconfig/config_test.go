package cliconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	assert.Equal(t, ":8089", cfg.ListenAddr)
	assert.Equal(t, "ApigeeHost", cfg.HostVariable)
	assert.Equal(t, "bearerToken", cfg.TokenVariable)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Prune)
	assert.Equal(t, SourceDefault, cfg.Sources["listenAddr"])
}

func TestParseConfig(t *testing.T) {
	data := []byte(`logLevel: debug
logFormat: json
hostVariable: baseUrl
prune: false
defaultHeaders:
  - key: X-application
    value: CRM
  - key: X-eTrackingID
allowedOrigins: ["https://app.example.com"]
datasetFile: ./dataset.csv
datasetToken: s3cret
`)
	cfg, err := ParseConfig("test.yaml", data)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "baseUrl", cfg.HostVariable)
	assert.Equal(t, []HeaderDefault{{Key: "X-application", Value: "CRM"}, {Key: "X-eTrackingID"}}, cfg.DefaultHeaders)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "s3cret", cfg.DatasetToken)
	assert.True(t, cfg.SetFields["prune"])
	assert.False(t, cfg.SetFields["listenAddr"])
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig("empty.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.ListenAddr)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		line     int
		contains string
	}{
		{
			name:     "bad enum",
			data:     "prune: true\nlogFormat: xml\n",
			line:     2,
			contains: "logFormat",
		},
		{
			name:     "wrong type",
			data:     "prune: sometimes\n",
			line:     1,
			contains: "prune",
		},
		{
			name:     "header without key",
			data:     "defaultHeaders:\n  - key: X-user\n  - value: x\n",
			line:     3,
			contains: "defaultHeaders/1",
		},
		{
			name:     "unknown key",
			data:     "colour: red\n",
			line:     1,
			contains: "colour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("bad.yaml", []byte(tt.data))
			require.Error(t, err)

			var cerr *ConfigError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.line, cerr.Line)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Contains(t, err.Error(), "bad.yaml (line ")
		})
	}
}

func TestParseConfig_SyntaxError(t *testing.T) {
	_, err := ParseConfig("broken.yaml", []byte("logLevel: [\n"))
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "broken.yaml", cerr.Path)
}

func TestMergeConfig(t *testing.T) {
	target := NewDefault()
	target.Prune = true

	src, err := ParseConfig("local.yaml", []byte("prune: false\nlistenAddr: 127.0.0.1:9000\n"))
	require.NoError(t, err)
	MergeConfig(target, src, SourceLocal)

	assert.False(t, target.Prune)
	assert.Equal(t, "127.0.0.1:9000", target.ListenAddr)
	assert.Equal(t, SourceLocal, target.Sources["listenAddr"])
	assert.Equal(t, "info", target.LogLevel)
	assert.Equal(t, SourceDefault, target.Sources["logLevel"])

	// Programmatic configs cannot express an explicit false.
	target.Prune = true
	MergeConfig(target, &CLIConfig{}, SourceFlag)
	assert.True(t, target.Prune)
}

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvPrune, "yes")
	t.Setenv(EnvAllowedOrigins, "https://a.example.com, ,https://b.example.com")
	t.Setenv(EnvDatasetToken, "tok")

	cfg := NewDefault()
	LoadEnvConfig(cfg)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Prune)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "tok", cfg.DatasetToken)
	assert.Equal(t, SourceEnv, cfg.Sources["prune"])
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)

	global := filepath.Join(dir, "config", GlobalConfigDir, "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(global), 0o755))
	require.NoError(t, os.WriteFile(global, []byte("hostVariable: globalHost\nlogFormat: json\n"), 0o600))

	explicit := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("hostVariable: fileHost\nlistenAddr: :7000\n"), 0o600))

	t.Setenv(EnvListenAddr, ":7100")

	cfg, err := LoadAll(explicit)
	require.NoError(t, err)
	assert.Equal(t, "fileHost", cfg.HostVariable)
	assert.Equal(t, SourceFile, cfg.Sources["hostVariable"])
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, SourceGlobal, cfg.Sources["logFormat"])
	assert.Equal(t, ":7100", cfg.ListenAddr)
	assert.Equal(t, SourceEnv, cfg.Sources["listenAddr"])
}

func TestLoadAll_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)

	_, err := LoadAll(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("logLevel: loud\n"), 0o600))
	_, err = LoadAll(bad)
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 1, cerr.Line)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
