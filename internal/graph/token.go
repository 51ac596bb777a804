package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"ig-oembed/internal/logger"
)

// tokenParams is the client-credentials grant query.
type tokenParams struct {
	ClientID     string `url:"client_id"`
	ClientSecret string `url:"client_secret"`
	GrantType    string `url:"grant_type"`
}

// AuthError reports a failed token exchange. Body holds the full response
// so the operator can see what the endpoint actually said.
type AuthError struct {
	Status int
	Body   string
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("token exchange: %s (HTTP %d): %s", e.Reason, e.Status, e.Body)
	}
	return fmt.Sprintf("token exchange: HTTP %d: %s", e.Status, e.Body)
}

// AppAccessToken exchanges an app id and secret for an app access token
// using the client_credentials grant. One call, no retry; any outcome other
// than a 200 JSON body carrying access_token is an *AuthError.
func (c *Client) AppAccessToken(ctx context.Context, appID, appSecret, graphVersion string) (string, error) {
	if appID == "" || appSecret == "" {
		return "", errors.New("app id and app secret must be non-empty")
	}

	resp, err := c.Get(ctx, graphVersion+"/oauth/access_token", tokenParams{
		ClientID:     appID,
		ClientSecret: appSecret,
		GrantType:    "client_credentials",
	})
	if err != nil {
		return "", errors.Wrap(err, "oauth/access_token")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read token response")
	}

	var parsed map[string]interface{}
	jsonErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{Status: resp.StatusCode, Body: string(body)}
	}
	if jsonErr != nil {
		return "", &AuthError{Status: resp.StatusCode, Body: string(body), Reason: "response is not JSON"}
	}
	token, _ := parsed["access_token"].(string)
	if token == "" {
		return "", &AuthError{Status: resp.StatusCode, Body: string(body), Reason: "access_token not found"}
	}

	logger.Entry(ctx).WithField("token_prefix", tokenPrefix(token)).Info("got app access token")
	return token, nil
}

// ComposeClientToken builds the app_id|client_token credential form. No
// network call is involved.
func ComposeClientToken(appID, clientToken string) string {
	return appID + "|" + clientToken
}

// tokenPrefix keeps at most 15 characters, enough to correlate tokens in
// logs without ever writing a usable credential.
func tokenPrefix(token string) string {
	const n = 15
	if len(token) <= n {
		return token
	}
	return token[:n] + "..."
}
