package interfaces

import (
	"context"
	"io"
)

// HTTPClient is the fetch collaborator used by discovery backends, agenda sources,
// and the article existence check.
type HTTPClient interface {
	// Get performs a GET request. Timeouts surface as errors, not as status codes.
	Get(ctx context.Context, url string) (Response, error)

	// Post performs a POST request with a JSON body. Extra headers, such as
	// Authorization, are applied after the defaults.
	Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (Response, error)
}

// Response is the subset of an HTTP response the core relies on.
type Response interface {
	// StatusCode returns the HTTP status code.
	StatusCode() int

	// Body returns the response body. The caller must close it.
	Body() io.ReadCloser

	// Header returns the named header value, or "" when absent.
	Header(key string) string
}
