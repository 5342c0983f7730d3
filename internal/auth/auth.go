// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package auth exchanges client credentials for a Genesys Cloud bearer token.
package auth

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/gstvbatista/gc-get-user-time/internal/config"
)

// Error reports a failed token exchange, carrying the upstream HTTP status
// and response body when available.
type Error struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed: HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client performs the client-credentials grant against the login endpoint.
type Client struct {
	creds *clientcredentials.Config
	base  *http.Client
}

// NewClient creates an auth client for the configured credentials.
// tokenURL is the full token endpoint, e.g. https://login.{env}/oauth/token.
func NewClient(cfg *config.Config, tokenURL string) *Client {
	base := http.DefaultClient
	if !cfg.SSLVerify {
		slog.Warn("TLS certificate verification disabled")
		base = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	return &Client{
		creds: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
			// Genesys expects the credentials in a Basic-Auth header,
			// form body only carries grant_type=client_credentials.
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		base: base,
	}
}

// Authenticate POSTs the client-credentials grant and returns the bearer
// token. Single attempt, no retry.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)

	tok, err := c.creds.Token(ctx)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return "", &Error{
				StatusCode: rerr.Response.StatusCode,
				Body:       string(rerr.Body),
				Err:        err,
			}
		}
		return "", &Error{Err: err}
	}

	return tok.AccessToken, nil
}

// HTTPClient returns a client that injects the given bearer token into every
// request. The token is fixed for the lifetime of one run; there is no
// refresh.
func (c *Client) HTTPClient(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}
