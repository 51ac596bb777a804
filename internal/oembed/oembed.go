package oembed

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"ig-oembed/internal/graph"
)

// Request describes one instagram_oembed call.
type Request struct {
	PostURL      string
	AccessToken  string
	GraphVersion string
	OmitScript   bool
	MaxWidth     int // emitted only when positive
}

// params is the wire form of Request.
type params struct {
	URL         string `url:"url"`
	AccessToken string `url:"access_token"`
	HideCaption string `url:"hidecaption"`
	OmitScript  string `url:"omitscript,omitempty"`
	MaxWidth    string `url:"maxwidth,omitempty"`
}

// Result is returned for every completed call regardless of HTTP status.
// Response holds the decoded JSON object, or {"raw": ..., "content_type": ...}
// when the body does not parse.
type Result struct {
	HTTPStatus int
	FinalURL   string
	Response   map[string]interface{}
}

// Fetch issues one GET against the instagram_oembed endpoint. A non-200
// status or an unparseable body is still a Result, not an error; only
// transport failures error out.
func Fetch(ctx context.Context, c *graph.Client, req Request) (*Result, error) {
	p := params{
		URL:         req.PostURL,
		AccessToken: req.AccessToken,
		HideCaption: "false", // captions stay visible
	}
	if req.OmitScript {
		p.OmitScript = "true"
	}
	if req.MaxWidth > 0 {
		p.MaxWidth = strconv.Itoa(req.MaxWidth)
	}

	resp, err := c.Get(ctx, req.GraphVersion+"/instagram_oembed", p)
	if err != nil {
		return nil, errors.Wrap(err, "instagram_oembed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read oembed response")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		data = map[string]interface{}{
			"raw":          string(body),
			"content_type": resp.Header.Get("Content-Type"),
		}
	}

	return &Result{
		HTTPStatus: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		Response:   data,
	}, nil
}
