package graph

import (
	"context"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/dghubble/sling"
	"github.com/pkg/errors"

	"ig-oembed/internal/logger"
)

// BaseURL is the Graph API host all calls go through. Must end in "/" so
// version-prefixed paths resolve against it.
const BaseURL = "https://graph.facebook.com/"

const requestTimeout = 20 * time.Second

// Client issues requests against a single Graph API host.
type Client struct {
	httpClient *http.Client
	base       string
	dumpHTTP   bool
}

type ClientOption func(c *Client) error

func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		base:       BaseURL,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithBaseURL points the client at a different host, e.g. a test server.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) error {
		c.base = base
		return nil
	}
}

// WithDumpHTTP wire-dumps every request and response headers to the log.
func WithDumpHTTP(dump bool) ClientOption {
	return func(c *Client) error {
		c.dumpHTTP = dump
		return nil
	}
}

// Get performs one GET against path (relative to the base URL) with params
// encoded as query parameters via their url struct tags.
func (c *Client) Get(ctx context.Context, path string, params interface{}) (*http.Response, error) {
	req, err := sling.New().Base(c.base).Path(path).QueryStruct(params).Request()
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req = req.WithContext(ctx)

	log := logger.Entry(ctx)
	if c.dumpHTTP {
		if s, err := httputil.DumpRequestOut(req, false); err != nil {
			return nil, errors.Wrap(err, "httputil.DumpRequestOut")
		} else {
			log.Println(string(s))
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if c.dumpHTTP {
		if s, err := httputil.DumpResponse(resp, false); err != nil {
			log.WithError(err).Warn("httputil.DumpResponse")
		} else {
			log.Println(string(s))
		}
	}
	return resp, nil
}
