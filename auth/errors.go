package auth

import "errors"

var (
	// ErrNoRefreshToken is returned when the token is stale and there is no
	// refresh token to renew it.
	ErrNoRefreshToken = errors.New("auth: no refresh token")
	// ErrTokenNotFound is returned by a TokenStore holding no token.
	ErrTokenNotFound = errors.New("auth: token not found")
	// ErrNoRefresher is returned when a refresh is needed but the provider
	// was created without a Refresher.
	ErrNoRefresher = errors.New("auth: no refresher configured")
)
