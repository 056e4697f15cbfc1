package connection

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rubyzoho/zohocrm.go/pkg/constants"
)

type HTTPConnection struct {
	httpClient *http.Client
	logger     zerolog.Logger
	metrics    *Metrics
}

// NewHTTPConnection builds a connection from p. A supplied HTTPClient is
// copied, so p.Timeout never changes the caller's client.
func NewHTTPConnection(p Config) *HTTPConnection {
	con := HTTPConnection{
		logger:  zerolog.Nop(),
		metrics: NewMetrics(p.Registerer),
	}
	if p.Logger != nil {
		con.logger = *p.Logger
	}

	if p.HTTPClient != nil {
		c := *p.HTTPClient
		con.httpClient = &c
	} else {
		con.httpClient = &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
		}
	}
	if p.Timeout > 0 {
		con.httpClient.Timeout = p.Timeout
	}

	return &con
}

// SetTimeout applies timeout to a copy of the current client.
func (h *HTTPConnection) SetTimeout(timeout time.Duration) *HTTPConnection {
	c := *h.httpClient
	c.Timeout = timeout
	h.httpClient = &c
	return h
}

func (h *HTTPConnection) SetHTTPClient(client *http.Client) *HTTPConnection {
	h.httpClient = client
	return h
}

// Metrics exposes the collectors this connection updates.
func (h *HTTPConnection) Metrics() *Metrics {
	return h.metrics
}

func (h *HTTPConnection) Get(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	req, err := newRequest(ctx, http.MethodGet, rawURL, params)
	if err != nil {
		return nil, err
	}
	return h.MakeRequest(req)
}

// Post sends params in the query string with an empty body, the way the
// service expects xmlData to arrive.
func (h *HTTPConnection) Post(ctx context.Context, rawURL string, params url.Values, headers http.Header) (*Response, error) {
	req, err := newRequest(ctx, http.MethodPost, rawURL, params)
	if err != nil {
		return nil, err
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return h.MakeRequest(req)
}

// MakeRequest performs req and reads the whole body. Only failures to get a
// reply are errors; the status code is returned as is.
func (h *HTTPConnection) MakeRequest(req *http.Request) (*Response, error) {
	action := path.Base(req.URL.Path)
	requestID := uuid.NewString()
	start := time.Now()

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.metrics.RequestsTotal.WithLabelValues(action, "error").Inc()
		h.logger.Warn().Err(err).Str("request_id", requestID).Str("action", action).Msg("request failed")
		return nil, &TransportError{Err: fmt.Errorf("error making HTTP request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		h.metrics.RequestsTotal.WithLabelValues(action, "error").Inc()
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	elapsed := time.Since(start)
	h.metrics.RequestsTotal.WithLabelValues(action, strconv.Itoa(resp.StatusCode)).Inc()
	h.metrics.RequestDuration.WithLabelValues(action).Observe(elapsed.Seconds())
	h.logger.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("action", action).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Msg("request done")

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func newRequest(ctx context.Context, method, rawURL string, params url.Values) (*http.Request, error) {
	if rawURL == "" {
		return nil, constants.ErrNoBaseURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
}
