package portability

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"

	"github.com/getmockd/xmlbridge/pkg/request"
)

// CURLOptions configures BuildCURL.
type CURLOptions struct {
	// HostVariable is the Postman-style variable the URL starts with.
	// Defaults to DefaultHostVariable.
	HostVariable string

	// Pruned sends the body with empty fields removed.
	Pruned bool
}

const curlContinuation = " \\\n    "

// BuildCURL renders a prepared request as a cURL command preceded by a
// "# <path>" comment line. Enabled path parameters are substituted,
// enabled non-empty query parameters are URL-encoded and enabled headers
// become -H flags. POST, PUT and PATCH requests carry the body as
// --data-raw.
func BuildCURL(m *request.Mapping, opts CURLOptions) (string, error) {
	if m == nil {
		return "", &ExportError{Format: FormatCURL, Message: "no request to render"}
	}
	host := opts.HostVariable
	if host == "" {
		host = DefaultHostVariable
	}

	path := m.Path
	for _, p := range m.PathParams {
		if p.Enabled {
			path = strings.Replace(path, "{"+p.Key+"}", p.Value, 1)
		}
	}

	var query []string
	for _, p := range m.QueryParams {
		if p.Enabled && p.Value != "" {
			query = append(query, encodeComponent(p.Key)+"="+encodeComponent(p.Value))
		}
	}
	fullPath := path
	if len(query) > 0 {
		fullPath += "?" + strings.Join(query, "&")
	}

	var sb strings.Builder
	sb.WriteString("# " + fullPath + "\n")
	sb.WriteString("curl -X " + m.Method + ` "{{` + host + `}}` + fullPath + `"`)

	var headers []string
	for _, h := range m.Headers {
		if h.Enabled {
			headers = append(headers, `-H "`+h.Key+": "+h.Value+`"`)
		}
	}
	if len(headers) > 0 {
		sb.WriteString(curlContinuation + strings.Join(headers, curlContinuation))
	}

	switch m.Method {
	case "POST", "PUT", "PATCH":
		body := m.Body
		if opts.Pruned && m.BodyPruned != nil {
			body = m.BodyPruned
		}
		if body != nil {
			raw, err := indentJSON(body)
			if err != nil {
				return "", &ExportError{Format: FormatCURL, Message: "encoding body", Cause: err}
			}
			sb.WriteString(curlContinuation + "--data-raw '" + strings.ReplaceAll(raw, "'", `'\''`) + "'")
		}
	}

	return sb.String(), nil
}

// encodeComponent escapes s the way browsers' encodeURIComponent does for
// the characters that matter in a query string.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// CURLRequest is a request read back from a cURL command.
type CURLRequest struct {
	Method  string             `json:"method"`
	URL     string             `json:"url"`
	Headers []request.KeyValue `json:"headers,omitempty"`
	Body    string             `json:"body,omitempty"`
}

// Header returns the first header named key, ignoring case.
func (r *CURLRequest) Header(key string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value, true
		}
	}
	return "", false
}

var errNoURL = errors.New("no URL found in cURL command")

// flagsWithArgs lists curl flags whose argument is skipped.
var flagsWithArgs = map[string]bool{
	"-o": true, "--output": true,
	"-A": true, "--user-agent": true,
	"-e": true, "--referer": true,
	"-b": true, "--cookie": true,
	"-c": true, "--cookie-jar": true,
	"-T": true, "--upload-file": true,
	"--connect-timeout": true,
	"-m":                true, "--max-time": true,
}

// ParseCURL reads a cURL command. Comment lines starting with '#' and
// backslash line continuations are ignored.
func ParseCURL(cmd string) (*CURLRequest, error) {
	var lines []string
	for _, line := range strings.Split(cmd, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, line)
	}
	cmd = strings.TrimSpace(strings.ReplaceAll(strings.Join(lines, "\n"), "\\\n", " "))

	if !strings.HasPrefix(cmd, "curl ") && !strings.HasPrefix(cmd, "curl\t") {
		return nil, &ParseError{Format: FormatCURL, Message: "not a valid cURL command"}
	}

	tokens, err := tokenizeCURL(cmd)
	if err != nil {
		return nil, &ParseError{Format: FormatCURL, Message: "failed to tokenize cURL command", Cause: err}
	}
	tokens = tokens[1:]

	result := &CURLRequest{Method: "GET"}
	explicitMethod := false
	var user string

	for idx := 0; idx < len(tokens); idx++ {
		token := tokens[idx]
		hasArg := idx+1 < len(tokens)

		switch {
		case (token == "-X" || token == "--request") && hasArg:
			idx++
			result.Method = strings.ToUpper(tokens[idx])
			explicitMethod = true

		case (token == "-H" || token == "--header") && hasArg:
			idx++
			if name, v, ok := strings.Cut(tokens[idx], ":"); ok {
				result.Headers = append(result.Headers, request.KeyValue{Key: strings.TrimSpace(name), Value: strings.TrimSpace(v)})
			}

		case (token == "-d" || token == "--data" || token == "--data-raw" || token == "--data-binary") && hasArg:
			idx++
			result.Body = tokens[idx]
			if !explicitMethod {
				result.Method = "POST"
			}

		case token == "--json" && hasArg:
			idx++
			result.Body = tokens[idx]
			result.Headers = append(result.Headers, request.KeyValue{Key: "Content-Type", Value: "application/json"})
			if !explicitMethod {
				result.Method = "POST"
			}

		case (token == "-u" || token == "--user") && hasArg:
			idx++
			user = tokens[idx]

		case token == "-G" || token == "--get":
			result.Method = "GET"
			explicitMethod = true

		case token == "-I" || token == "--head":
			result.Method = "HEAD"
			explicitMethod = true

		case strings.HasPrefix(token, "-"):
			if flagsWithArgs[token] && hasArg {
				idx++
			}

		default:
			if result.URL == "" {
				result.URL = token
			}
		}
	}

	if result.URL == "" {
		return nil, &ParseError{Format: FormatCURL, Message: "failed to parse cURL command", Cause: errNoURL}
	}

	if user != "" {
		if !strings.Contains(user, ":") {
			user += ":"
		}
		encoded := base64.StdEncoding.EncodeToString([]byte(user))
		result.Headers = append(result.Headers, request.KeyValue{Key: "Authorization", Value: "Basic " + encoded})
	}

	return result, nil
}

var errUnterminatedQuote = errors.New("unterminated quote")

// tokenizeCURL splits a command into words with POSIX shell quoting:
// nothing is special inside single quotes, and inside double quotes a
// backslash only escapes ", \, $ and `.
func tokenizeCURL(cmd string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inToken := false
	inQuote := rune(0)
	escaped := false

	flush := func() {
		if inToken {
			tokens = append(tokens, current.String())
			current.Reset()
			inToken = false
		}
	}

	for _, r := range cmd {
		switch {
		case escaped:
			if inQuote == '"' && !strings.ContainsRune("\"\\$`", r) {
				current.WriteRune('\\')
			}
			current.WriteRune(r)
			escaped = false

		case inQuote == '\'':
			if r == '\'' {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}

		case r == '\\':
			escaped = true
			inToken = true

		case inQuote == '"':
			if r == '"' {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}

		case r == '"' || r == '\'':
			inQuote = r
			inToken = true

		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()

		default:
			current.WriteRune(r)
			inToken = true
		}
	}

	if inQuote != 0 {
		return nil, errUnterminatedQuote
	}
	flush()
	return tokens, nil
}
