package zohocrm

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/rubyzoho/zohocrm.go/pkg/connection"
	"github.com/rubyzoho/zohocrm.go/pkg/schema"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	conn       connection.Connection
	source     schema.Source
	logger     *zerolog.Logger
	registerer prometheus.Registerer
	httpClient *http.Client
}

// WithConnection replaces the HTTP transport. WithHTTPClient and
// WithRegisterer have no effect when it is set.
func WithConnection(conn connection.Connection) Option {
	return func(o *options) {
		o.conn = conn
	}
}

// WithSchemaSource supplies field metadata instead of the configured file or
// the service.
func WithSchemaSource(src schema.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithRegisterer registers the transport metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}
