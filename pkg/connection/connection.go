package connection

import (
	"context"
	"net/http"
	"net/url"
)

// Response is a raw service reply. Status is not interpreted here; pass it to
// [Classify] before decoding the body.
type Response struct {
	StatusCode int
	Body       []byte
}

// Connection issues authenticated calls to the service. Implementations block
// until the whole body has been read.
type Connection interface {
	Get(ctx context.Context, rawURL string, params url.Values) (*Response, error)
	Post(ctx context.Context, rawURL string, params url.Values, headers http.Header) (*Response, error)
}
