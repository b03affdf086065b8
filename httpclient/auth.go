package httpclient

import (
	"context"
	"errors"
)

// AuthenticationProvider supplies bearer tokens for requests that declare
// AuthBearer. Implementations are shared by all concurrent sends and must
// allow at most one refresh in flight, handing its outcome to every waiter.
type AuthenticationProvider interface {
	// AccessToken returns a currently valid access token, refreshing first
	// if the held token is missing or stale.
	AccessToken(ctx context.Context) (string, error)
	// RefreshAccessToken exchanges refreshToken for a new access token.
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// ErrEmptyToken is returned by StaticToken when it holds no value.
var ErrEmptyToken = errors.New("httpclient: empty access token")

// StaticToken is an AuthenticationProvider that always returns the same
// token. Refreshing is a no-op.
type StaticToken string

// AccessToken implements AuthenticationProvider.
func (t StaticToken) AccessToken(_ context.Context) (string, error) {
	if t == "" {
		return "", ErrEmptyToken
	}
	return string(t), nil
}

// RefreshAccessToken implements AuthenticationProvider.
func (t StaticToken) RefreshAccessToken(ctx context.Context, _ string) (string, error) {
	return t.AccessToken(ctx)
}
