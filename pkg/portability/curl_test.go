package portability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/xmlbridge/pkg/request"
	"github.com/getmockd/xmlbridge/pkg/value"
)

func orderMapping() *request.Mapping {
	full := value.NewObject()
	full.Set("name", "O'Brien")
	full.Set("note", "")
	pruned := value.NewObject()
	pruned.Set("name", "O'Brien")

	return &request.Mapping{
		Method: "POST",
		Path:   "/customers/{id}/orders",
		PathParams: []request.Param{
			{Key: "id", Value: "C 1", Enabled: true},
		},
		QueryParams: []request.Param{
			{Key: "q", Value: "a&b", Enabled: true},
			{Key: "empty", Value: "", Enabled: true},
			{Key: "off", Value: "x", Enabled: false},
		},
		Headers: []request.Header{
			{Key: "Accept", Value: "application/json", Enabled: true},
			{Key: "X-Off", Value: "v", Enabled: false},
		},
		HasBody:    true,
		Body:       full,
		BodyPruned: pruned,
	}
}

func TestBuildCURL(t *testing.T) {
	got, err := BuildCURL(orderMapping(), CURLOptions{Pruned: true})
	require.NoError(t, err)

	want := "# /customers/C 1/orders?q=a%26b\n" +
		"curl -X POST \"{{ApigeeHost}}/customers/C 1/orders?q=a%26b\" \\\n" +
		"    -H \"Accept: application/json\" \\\n" +
		"    --data-raw '{\n  \"name\": \"O'\\''Brien\"\n}'"
	assert.Equal(t, want, got)
}

func TestBuildCURL_FullBody(t *testing.T) {
	got, err := BuildCURL(orderMapping(), CURLOptions{})
	require.NoError(t, err)
	assert.Contains(t, got, "\"note\": \"\"")
}

func TestBuildCURL_NoBodyOrHeaders(t *testing.T) {
	got, err := BuildCURL(&request.Mapping{Method: "GET", Path: "/ping"}, CURLOptions{HostVariable: "host"})
	require.NoError(t, err)
	assert.Equal(t, "# /ping\ncurl -X GET \"{{host}}/ping\"", got)

	_, err = BuildCURL(nil, CURLOptions{})
	var exportErr *ExportError
	assert.True(t, errors.As(err, &exportErr))
}

func TestParseCURL_RoundTrip(t *testing.T) {
	cmd, err := BuildCURL(orderMapping(), CURLOptions{Pruned: true})
	require.NoError(t, err)

	parsed, err := ParseCURL(cmd)
	require.NoError(t, err)
	assert.Equal(t, "POST", parsed.Method)
	assert.Equal(t, "{{ApigeeHost}}/customers/C 1/orders?q=a%26b", parsed.URL)
	assert.Equal(t, []request.KeyValue{{Key: "Accept", Value: "application/json"}}, parsed.Headers)
	assert.Equal(t, "{\n  \"name\": \"O'Brien\"\n}", parsed.Body)
}

func TestParseCURL(t *testing.T) {
	tests := []struct {
		name       string
		cmd        string
		wantMethod string
		wantURL    string
		wantBody   string
		wantHeader request.KeyValue
	}{
		{
			name:       "data implies POST",
			cmd:        `curl https://api.example.com/items -d 'a=1'`,
			wantMethod: "POST",
			wantURL:    "https://api.example.com/items",
			wantBody:   "a=1",
		},
		{
			name:       "explicit method wins over data",
			cmd:        `curl -X put --json '{"a":1}' https://api.example.com/items/1`,
			wantMethod: "PUT",
			wantURL:    "https://api.example.com/items/1",
			wantBody:   `{"a":1}`,
			wantHeader: request.KeyValue{Key: "Content-Type", Value: "application/json"},
		},
		{
			name:       "basic auth",
			cmd:        `curl -u bob:pw https://api.example.com`,
			wantMethod: "GET",
			wantURL:    "https://api.example.com",
			wantHeader: request.KeyValue{Key: "Authorization", Value: "Basic Ym9iOnB3"},
		},
		{
			name:       "double quote escapes",
			cmd:        `curl -H "X-Q: a\"b\n" https://api.example.com`,
			wantMethod: "GET",
			wantURL:    "https://api.example.com",
			wantHeader: request.KeyValue{Key: "X-Q", Value: `a"b\n`},
		},
		{
			name:       "empty body and skipped flags",
			cmd:        `curl -o out.json -d '' --max-time 5 https://api.example.com`,
			wantMethod: "POST",
			wantURL:    "https://api.example.com",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCURL(tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMethod, got.Method)
			assert.Equal(t, tt.wantURL, got.URL)
			assert.Equal(t, tt.wantBody, got.Body)
			if tt.wantHeader.Key != "" {
				v, ok := got.Header(tt.wantHeader.Key)
				assert.True(t, ok)
				assert.Equal(t, tt.wantHeader.Value, v)
			}
		})
	}
}

func TestParseCURL_Errors(t *testing.T) {
	for _, cmd := range []string{
		"wget https://api.example.com",
		"curl -X GET",
		"curl 'https://api.example.com",
	} {
		_, err := ParseCURL(cmd)
		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr), cmd)
	}
}
