package runtime

import "net/http"

// Request represents an incoming request.
type Request struct {
	Path   string
	Method string
	Body   []byte
	Header http.Header
}

// Response represents an outgoing response.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// ErrorResponse represents error response data.
type ErrorResponse struct {
	Error ErrorData `json:"error"`
}

// ErrorData describes the error of an error response.
type ErrorData struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
