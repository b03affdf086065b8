package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/kbukum/reqkit/httpclient"
)

// Refresher exchanges a refresh token for a new Token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*Token, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (*Token, error)

// Refresh implements Refresher.
func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	return f(ctx, refreshToken)
}

// OAuth2Refresher performs the OAuth 2.0 refresh_token grant against
// cfg.Endpoint.TokenURL. An *http.Client stored in ctx under
// oauth2.HTTPClient is used for the exchange; otherwise one with a
// DefaultRefreshTimeout timeout.
func OAuth2Refresher(cfg *oauth2.Config) Refresher {
	fallback := &http.Client{Timeout: DefaultRefreshTimeout}
	return RefresherFunc(func(ctx context.Context, refreshToken string) (*Token, error) {
		if _, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); !ok {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, fallback)
		}
		src := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
		tok, err := src.Token()
		if err != nil {
			return nil, fmt.Errorf("auth: oauth2 refresh: %w", err)
		}
		return &Token{
			AccessToken:  tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			TokenType:    tok.Type(),
			ExpiresAt:    tok.Expiry,
		}, nil
	})
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// FormRefresher posts a form-encoded refresh_token grant to path through c
// and decodes a standard token response. Use it for token endpoints that
// need the client's transport, TLS or headers.
func FormRefresher(c *httpclient.Client, path, clientID string) Refresher {
	return RefresherFunc(func(ctx context.Context, refreshToken string) (*Token, error) {
		form := url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {refreshToken},
		}
		if clientID != "" {
			form.Set("client_id", clientID)
		}

		tmpl := httpclient.Endpoint[tokenResponse]{Spec: httpclient.Request{
			Method: httpclient.MethodPost,
			Path:   path,
			Headers: map[string]string{
				httpclient.HeaderContentType.String(): "application/x-www-form-urlencoded",
				httpclient.HeaderAccept.String():      httpclient.ContentTypeJSON.String(),
			},
			Body: []byte(form.Encode()),
		}}

		resp, err := httpclient.Send[tokenResponse](ctx, c, tmpl)
		if err != nil {
			return nil, err
		}
		if resp.AccessToken == "" {
			return nil, fmt.Errorf("auth: token response without access_token")
		}

		tok := &Token{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			TokenType:    resp.TokenType,
		}
		if resp.ExpiresIn > 0 {
			tok.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
		}
		return tok, nil
	})
}
