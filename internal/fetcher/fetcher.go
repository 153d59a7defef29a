package fetcher

import (
	"context"
	"mime"
	"strings"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Get fetches the URL and returns the full response. Non-2xx statuses
	// that are not retryable are returned as responses, not errors.
	Get(ctx context.Context, url string) (*Response, error)

	// ListLinks fetches an HTML page and returns the href of every anchor.
	ListLinks(ctx context.Context, pageURL string) ([]string, error)
}

// Response is a fully read HTTP response.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// MediaType returns the lower-cased media type without parameters.
func (r *Response) MediaType() string {
	mt, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		mt, _, _ = strings.Cut(r.ContentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
