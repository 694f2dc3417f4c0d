package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/xmlbridge/pkg/cliconfig"
)

const testSpec = `openapi: 3.0.3
info:
  title: Customer Service
  version: "1"
paths:
  /customers:
    post:
      operationId: createCustomer
      tags: [customers]
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Customer'
      responses:
        "201":
          description: created
  /customers/{customerId}:
    get:
      operationId: getCustomer
      tags: [customers]
      parameters:
        - name: customerId
          in: path
          required: true
          schema:
            type: string
          example: C-1
      responses:
        "200":
          description: ok
components:
  schemas:
    Customer:
      type: object
      properties:
        id:
          type: integer
        name:
          type: string
        tags:
          type: array
          items:
            type: string
`

const testXML = `<Root><id>7</id><name>Ana</name><tags><tag>a</tag><tag>b</tag></tags></Root>`

// workspace isolates config lookup and returns a directory holding
// api.yaml and customer.xml.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	for _, env := range []string{cliconfig.EnvConfig, cliconfig.EnvPrune, cliconfig.EnvHostVariable, cliconfig.EnvLogLevel} {
		t.Setenv(env, "")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.yaml"), []byte(testSpec), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "customer.xml"), []byte(testXML), 0o600))
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestMapCommand(t *testing.T) {
	workspace(t)

	out, _, err := run(t, "", "map", "--spec", "api.yaml", "--xml", "customer.xml", "--operation", "createCustomer")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"id\": 7,\n  \"name\": \"Ana\",\n  \"tags\": [\n    \"a\",\n    \"b\"\n  ]\n}\n", out)

	out, _, err = run(t, testXML, "map", "--spec", "api.yaml", "--xml", "-", "--schema", "Customer", "--select", "$.tags[0]")
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, out)

	out, _, err = run(t, "", "map", "--spec", "api.yaml", "--xml", "customer.xml", "--schema", "Customer", "--json")
	require.NoError(t, err)
	var single MapOutput
	require.NoError(t, json.Unmarshal([]byte(out), &single))
	assert.Equal(t, "customer.xml", single.File)
	assert.Equal(t, "Root", single.Payload)
	assert.Empty(t, single.Diagnostics)
}

func TestMapCommand_Glob(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "a.xml"), []byte("<Root><id>1</id></Root>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "nested", "b.xml"), []byte("<Root><id>2</id></Root>"), 0o600))

	out, _, err := run(t, "", "map", "--spec", "api.yaml", "--xml", "logs/**/*.xml", "--schema", "Customer", "--prune", "--json")
	require.NoError(t, err)

	var results []MapOutput
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join("logs", "a.xml"), results[0].File)
	assert.Equal(t, map[string]any{"id": float64(1)}, results[0].Result)
	assert.Equal(t, filepath.Join("logs", "nested", "b.xml"), results[1].File)

	_, _, err = run(t, "", "map", "--spec", "api.yaml", "--xml", "nothing/**/*.xml", "--schema", "Customer")
	assert.ErrorContains(t, err, "no files match")
}

func TestMapCommand_Errors(t *testing.T) {
	workspace(t)

	_, _, err := run(t, "", "map", "--spec", "api.yaml", "--xml", "customer.xml", "--schema", "Customer", "--operation", "createCustomer")
	assert.Error(t, err)

	_, _, err = run(t, "", "map", "--xml", "customer.xml", "--schema", "Customer")
	assert.ErrorContains(t, err, "--spec is required")

	_, _, err = run(t, "<Root><id>", "map", "--spec", "api.yaml", "--xml", "-", "--schema", "Customer")
	assert.Error(t, err)
}

func TestMapCommand_PruneFromConfig(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xmlbridgerc.yaml"), []byte("prune: true\n"), 0o600))

	out, _, err := run(t, "<Root><id>7</id></Root>", "map", "--spec", "api.yaml", "--xml", "-", "--schema", "Customer")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, out)

	out, _, err = run(t, "<Root><id>7</id></Root>", "map", "--spec", "api.yaml", "--xml", "-", "--schema", "Customer", "--prune=false")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"","tags":[]}`, out)
}

func TestPruneCommand(t *testing.T) {
	workspace(t)

	out, _, err := run(t, `{"z":"","a":0,"list":[{"x":null}],"ok":true}`, "prune")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 0,\n  \"ok\": true\n}\n", out)

	out, _, err = run(t, `{"a":""}`, "prune", "-")
	require.NoError(t, err)
	assert.Equal(t, "{}\n", out)

	_, _, err = run(t, `{"a":`, "prune")
	assert.Error(t, err)
}

func TestExampleCommand(t *testing.T) {
	workspace(t)

	out, _, err := run(t, "", "example", "--spec", "api.yaml", "--schema", "Customer")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":0,"name":"","tags":[""]}`, out)

	_, _, err = run(t, "", "example", "--spec", "api.yaml", "--operation", "getCustomer")
	assert.Error(t, err)
}

func TestOperationsCommand(t *testing.T) {
	workspace(t)

	out, _, err := run(t, "", "operations", "--spec", "api.yaml")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "METHOD"))
	assert.Contains(t, lines[1], "POST")
	assert.Contains(t, lines[1], "createCustomer")
	assert.Contains(t, lines[2], "/customers/{customerId}")

	out, _, err = run(t, "", "ops", "--spec", "api.yaml", "--json")
	require.NoError(t, err)
	var rows []OperationSummary
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.True(t, rows[0].HasBody)
	assert.False(t, rows[1].HasBody)
	assert.Equal(t, "GET", rows[1].Method)
}

func TestValidateCommand(t *testing.T) {
	dir := workspace(t)

	out, _, err := run(t, "", "validate", "--spec", "api.yaml", "--xml", "customer.xml")
	require.NoError(t, err)
	assert.Equal(t, "Valid\n", out)

	out, _, err = run(t, "<a><b></a>", "validate", "--xml", "-", "--json")
	assert.True(t, errors.Is(err, errValidationFailed))
	var result ValidateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "xml", result.Issues[0].Pointer)

	broken := strings.Replace(testSpec, "'#/components/schemas/Customer'", "'#/components/schemas/Missing'", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(broken), 0o600))
	out, _, err = run(t, "", "validate", "--spec", "broken.yaml")
	assert.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out, "Missing")

	_, _, err = run(t, "", "validate")
	assert.ErrorContains(t, err, "--spec or --xml is required")
}

func TestFixYAMLCommand(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("info:\n\ttitle Orders\n\n\n\nversion: 1\n"), 0o600))

	out, _, err := run(t, "", "fix-yaml", "broken.yaml")
	require.NoError(t, err)
	assert.Equal(t, "info:\n  title: Orders\n\nversion: 1\n", out)

	_, _, err = run(t, "", "fix-yaml", "broken.yaml", "-o", "fixed/out.yaml")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "fixed", "out.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info:\n  title: Orders\n\nversion: 1\n", string(data))
}

func TestPostmanCommand(t *testing.T) {
	dir := workspace(t)

	out, _, err := run(t, "", "postman", "--spec", "api.yaml", "-o", "-", "--group-by-tag")
	require.NoError(t, err)
	var coll struct {
		Info struct {
			Name string `json:"name"`
		} `json:"info"`
		Item []struct {
			Name string            `json:"name"`
			Item []json.RawMessage `json:"item"`
		} `json:"item"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &coll))
	assert.Equal(t, "Customer Service", coll.Info.Name)
	require.Len(t, coll.Item, 1)
	assert.Equal(t, "Customers", coll.Item[0].Name)
	assert.Len(t, coll.Item[0].Item, 2)

	out, _, err = run(t, "", "postman", "--spec", "api.yaml", "--json")
	require.NoError(t, err)
	var result PostmanOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Requests)
	assert.Regexp(t, `^customer_service_1_\d{8}_\d{6}_\d{3}\.json$`, result.File)
	_, err = os.Stat(filepath.Join(dir, result.File))
	assert.NoError(t, err)
}

func TestCURLCommand(t *testing.T) {
	workspace(t)

	out, stderr, err := run(t, "", "curl", "--spec", "api.yaml", "--operation", "createCustomer", "--xml", "customer.xml",
		"-H", "X-user: U1", "-H", "X-Extra: yes", "--validate")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.True(t, strings.HasPrefix(out, "# /customers\ncurl -X POST \"{{ApigeeHost}}/customers\""), out)
	assert.Contains(t, out, `-H "X-user: U1"`)
	assert.NotContains(t, out, "U80063362")
	assert.Contains(t, out, `-H "X-Extra: yes"`)
	assert.Contains(t, out, `"name": "Ana"`)

	out, _, err = run(t, "", "curl", "--spec", "api.yaml", "--operation", "GET /customers/{customerId}", "--json")
	require.NoError(t, err)
	var result CURLOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, strings.HasPrefix(result.CURL, "# /customers/C-1\n"), result.CURL)
	assert.Equal(t, "GET", result.Mapping.Method)
}

func TestCURLCommand_NeedsOperationWithoutTerminal(t *testing.T) {
	workspace(t)

	_, _, err := run(t, "", "curl", "--spec", "api.yaml")
	assert.ErrorIs(t, err, errNoOperation)

	_, _, err = run(t, "", "curl", "--spec", "api.yaml", "--operation", "createCustomer", "-H", "broken")
	assert.ErrorContains(t, err, "invalid header")
}

func TestConfigCommand(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".xmlbridgerc.yaml"), []byte("hostVariable: baseUrl\ndatasetToken: secret\n"), 0o600))
	t.Setenv(cliconfig.EnvLogLevel, "debug")

	out, _, err := run(t, "", "config", "--log-format", "json", "--json")
	require.NoError(t, err)
	var result ConfigOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "baseUrl", result.Config.HostVariable)
	assert.Empty(t, result.Config.DatasetToken)
	assert.Equal(t, cliconfig.SourceLocal, result.Sources["hostVariable"])
	assert.Equal(t, cliconfig.SourceEnv, result.Sources["logLevel"])
	assert.Equal(t, cliconfig.SourceFlag, result.Sources["logFormat"])

	out, _, err = run(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "hostVariable:    baseUrl  (local config)")
	assert.Contains(t, out, "datasetToken:    (set)")
	assert.NotContains(t, out, "secret")
}

func TestConfigFlag_InvalidFile(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("logFormat: xml\n"), 0o600))

	_, _, err := run(t, "", "version", "--config", "bad.yaml")
	assert.ErrorIs(t, err, cliconfig.ErrInvalidConfig)
}

func TestLogFile(t *testing.T) {
	dir := workspace(t)
	logPath := filepath.Join(dir, "xmlbridge.log")

	_, _, err := run(t, "", "map", "--spec", "api.yaml", "--xml", "customer.xml", "--schema", "Customer",
		"--log-level", "debug", "--log-file", logPath)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
	assert.Contains(t, string(data), `"file":"customer.xml"`)
}

func TestInitCommand(t *testing.T) {
	dir := workspace(t)

	_, stderr, err := run(t, "", "init", "-t", "server")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Created .xmlbridgerc.yaml")

	cfg, err := cliconfig.LoadConfigFile(filepath.Join(dir, ".xmlbridgerc.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8089", cfg.ListenAddr)

	_, _, err = run(t, "", "init")
	assert.ErrorContains(t, err, "already exists")

	_, _, err = run(t, "", "init", "--force")
	require.NoError(t, err)

	out, _, err := run(t, "", "init", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "headers")
}

func TestTopicsCommand(t *testing.T) {
	workspace(t)

	out, _, err := run(t, "", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "matching")

	out, _, err = run(t, "", "topics", "headers")
	require.NoError(t, err)
	assert.Contains(t, out, "X-eTrackingID")

	_, _, err = run(t, "", "topics", "nope")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	workspace(t)

	out, _, err := run(t, "", "version", "--json")
	require.NoError(t, err)
	var v VersionOutput
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.NotEmpty(t, v.Go)
	assert.NotEmpty(t, v.Version)

	out, _, err = run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "xmlbridge "))
}
