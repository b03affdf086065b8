package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLeeway is how long before expiry a token is already treated as
// stale.
const DefaultLeeway = 30 * time.Second

// DefaultRefreshTimeout bounds one token refresh.
const DefaultRefreshTimeout = 30 * time.Second

// Token is an access token together with the credential used to renew it.
type Token struct {
	AccessToken  string    `json:"access_token" yaml:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty" yaml:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Expiry returns ExpiresAt, or the "exp" claim when the access token is a
// JWT and ExpiresAt is unset. The zero time means the expiry is unknown.
func (t *Token) Expiry() time.Time {
	if !t.ExpiresAt.IsZero() {
		return t.ExpiresAt
	}
	exp, _ := jwtExpiry(t.AccessToken)
	return exp
}

// Stale reports whether the token must be refreshed before use at now.
// A token without access token is stale; one with unknown expiry is not.
func (t *Token) Stale(now time.Time, leeway time.Duration) bool {
	if t == nil || t.AccessToken == "" {
		return true
	}
	exp := t.Expiry()
	if exp.IsZero() {
		return false
	}
	return !now.Add(leeway).Before(exp)
}

func (t *Token) clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// jwtExpiry reads the exp claim without verifying the signature. The token
// is only inspected for scheduling, never trusted.
func jwtExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
