package gatewaysvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
)

type (
	// TokenSource supplies the bearer token of the current session.
	TokenSource interface {
		Token() string
	}

	Option func(*Client)

	// Client is the single point of HTTP egress towards the remote fee API.
	// Calls are never retried: a failed mutation is only repeated by an explicit user action.
	Client struct {
		base    *url.URL
		http    *http.Client
		tokens  TokenSource
		logger  core.Logger
		metrics *Metrics
	}

	ctxTokenKey struct{}
)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(logger core.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing api base url")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("invalid api base url %q", baseURL)
	}
	c := &Client{base: base, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ContextWithToken binds a session token to the calls made with ctx. It takes precedence over the TokenSource.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

func (c *Client) token(ctx context.Context) string {
	if tok, ok := ctx.Value(ctxTokenKey{}).(string); ok {
		return tok
	}
	if c.tokens != nil {
		return c.tokens.Token()
	}
	return ""
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Do issues one request and decodes a 2xx JSON body into out (which may be nil).
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), rdr)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.observe(method, "error", start)
		if ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), "%s %s", method, path)
		}
		return errors.Wrapf(&core.NetworkError{Err: err}, "%s %s", method, path)
	}
	defer res.Body.Close()
	c.observe(method, strconv.Itoa(res.StatusCode), start)

	data, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(&core.NetworkError{Err: err}, "reading %s %s", method, path)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &core.APIError{Status: res.StatusCode, Message: errorMessage(data)}
		if c.logger != nil && res.StatusCode >= http.StatusInternalServerError {
			c.logger.Warn("remote api server error", apiErr, map[string]interface{}{"method": method, "path": path})
		}
		return errors.Wrapf(apiErr, "%s %s", method, path)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decoding %s %s", method, path)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) observe(method, status string, start time.Time) {
	if c.metrics != nil {
		c.metrics.observe(method, status, time.Since(start))
	}
}

// errorMessage pulls "message" or "error" out of an error body, if there is one.
func errorMessage(data []byte) string {
	var body struct {
		Message interface{} `json:"message"`
		Error   interface{} `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	for _, v := range []interface{}{body.Message, body.Error} {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
