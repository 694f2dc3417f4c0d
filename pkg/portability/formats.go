package portability

import "strconv"

// Format names an artifact format.
type Format string

// Supported artifact formats.
const (
	FormatUnknown Format = ""
	FormatPostman Format = "postman" // Postman Collection v2.1
	FormatCURL    Format = "curl"    // cURL command
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Default names of the Postman variables generated artifacts refer to.
const (
	DefaultHostVariable  = "ApigeeHost"
	DefaultTokenVariable = "bearerToken"
)

// ExportError represents an error while producing an artifact.
type ExportError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	msg := e.Message
	if e.Format != FormatUnknown {
		msg = string(e.Format) + ": " + msg
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// ParseError represents an error while reading an artifact back.
type ParseError struct {
	Format  Format
	Offset  int
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Format != FormatUnknown {
		msg = string(e.Format) + ": " + msg
	}
	if e.Offset > 0 {
		msg = msg + " (offset " + strconv.Itoa(e.Offset) + ")"
	}
	if e.Cause != nil {
		msg = msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
