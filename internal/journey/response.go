package journey

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StepResponse is the outcome of one step's HTTP call, supplied by the host
// after it performs the request. The core never issues requests itself.
type StepResponse struct {
	// StatusCode is the HTTP status code
	StatusCode int `json:"statusCode" yaml:"statusCode"`

	// Headers are the response headers (single-valued)
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Body is the raw or already-decoded response body: a string, []byte,
	// or a decoded JSON value
	Body interface{} `json:"body,omitempty" yaml:"body,omitempty"`

	// ResponseTimeMs is the request duration measured by the host
	ResponseTimeMs float64 `json:"responseTimeMs,omitempty" yaml:"responseTimeMs,omitempty"`
}

// IsSuccess reports whether the status code is in [200, 300).
func (r *StepResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HeaderValue looks up a header case-insensitively.
func (r *StepResponse) HeaderValue(name string) (string, bool) {
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// BodyString coerces the body to a string. Non-string bodies are re-encoded
// as JSON so JSONPath and regex extraction see one canonical form.
func (r *StepResponse) BodyString() string {
	switch b := r.Body.(type) {
	case nil:
		return ""
	case string:
		return b
	case []byte:
		return string(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return fmt.Sprintf("%v", b)
		}
		return string(encoded)
	}
}
