package zohocrm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rubyzoho/zohocrm.go/pkg/classify"
	"github.com/rubyzoho/zohocrm.go/pkg/codec"
	"github.com/rubyzoho/zohocrm.go/pkg/config"
	"github.com/rubyzoho/zohocrm.go/pkg/connection"
	"github.com/rubyzoho/zohocrm.go/pkg/constants"
	"github.com/rubyzoho/zohocrm.go/pkg/models"
	"github.com/rubyzoho/zohocrm.go/pkg/schema"
	"github.com/rubyzoho/zohocrm.go/pkg/users"
)

// Client talks to one CRM account. It is safe for concurrent use.
type Client struct {
	endpoint

	registry *schema.Registry
	codec    *codec.Codec
	users    *users.Cache
}

// New creates a client for cfg and loads the field metadata of every
// configured module. A failure to load any of them is a SchemaLoadError.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("zohocrm: nil config")
	}
	conf := *cfg
	if conf.BaseURL == "" {
		conf.BaseURL = constants.DefaultBaseURL
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := zerolog.Nop()
	if o.logger != nil {
		logger = *o.logger
	}

	conn := o.conn
	if conn == nil {
		conn = connection.NewHTTPConnection(connection.Config{
			Timeout:    conf.Timeout,
			HTTPClient: o.httpClient,
			Logger:     &logger,
			Registerer: o.registerer,
		})
	}

	c := &Client{
		endpoint: endpoint{
			conn:      conn,
			baseURL:   strings.TrimRight(conf.BaseURL, "/"),
			authToken: conf.AuthToken,
			logger:    logger,
		},
	}

	src := o.source
	if src == nil {
		if conf.FieldsFile != "" {
			static, err := schema.LoadFile(conf.FieldsFile)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", constants.ErrSchemaLoad, err)
			}
			src = static
		} else {
			src = &RemoteSource{endpoint: c.endpoint}
		}
	}

	reg, err := schema.Load(ctx, src, schema.Dedup(constants.DefaultModules, conf.Modules))
	if err != nil {
		return nil, err
	}
	c.registry = reg
	c.codec = codec.New(reg, conf.IgnoreFields).SetLogger(logger)
	c.users = users.NewCache(c.fetchUsers)

	logger.Debug().Strs("modules", reg.Modules()).Msg("client ready")

	return c, nil
}

// Modules returns the configured modules, built-ins first.
func (c *Client) Modules() []string {
	return c.registry.Modules()
}

// ModuleFields returns the field metadata of module.
func (c *Client) ModuleFields(module string) ([]models.FieldDescriptor, error) {
	return c.registry.FieldsOf(module)
}

// PrimaryKey returns the identifier field name of module.
func (c *Client) PrimaryKey(module string) string {
	return classify.PrimaryKey(module)
}

func (c *Client) checkModule(modules ...string) error {
	for _, m := range modules {
		if !c.registry.Has(m) {
			return &UnknownModuleError{Module: m}
		}
	}
	return nil
}

// endpoint builds authenticated calls and classifies their replies.
type endpoint struct {
	conn      connection.Connection
	baseURL   string
	authToken string
	logger    zerolog.Logger
}

func (e endpoint) url(module, action string) string {
	return e.baseURL + "/" + url.PathEscape(module) + "/" + action
}

func (e endpoint) params(extra url.Values) url.Values {
	p := url.Values{}
	p.Set("authtoken", e.authToken)
	p.Set("scope", constants.Scope)
	for k, vs := range extra {
		p[k] = vs
	}
	return p
}

// call performs one request and returns its body. A nil body with a nil
// error means the service had no data to return.
func (e endpoint) call(ctx context.Context, method, module, action string, params url.Values) ([]byte, error) {
	var (
		res *connection.Response
		err error
	)
	switch method {
	case http.MethodPost:
		res, err = e.conn.Post(ctx, e.url(module, action), e.params(params), nil)
	default:
		res, err = e.conn.Get(ctx, e.url(module, action), e.params(params))
	}
	if err != nil {
		return nil, err
	}

	code, err := connection.ClassifyResponse(res)
	if err != nil {
		e.logger.Debug().Err(err).Str("module", module).Str("action", action).Msg("call rejected")
		return nil, err
	}
	if connection.IsBenign(code) {
		e.logger.Debug().Str("module", module).Str("action", action).Str("code", code).Msg("no data")
		return nil, nil
	}
	return res.Body, nil
}
