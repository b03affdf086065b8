package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kbukum/reqkit/httpclient"
	"github.com/kbukum/reqkit/logger"
)

// TokenProvider is an httpclient.AuthenticationProvider that refreshes its
// token through a Refresher, with at most one refresh in flight.
type TokenProvider struct {
	refresher      Refresher
	store          TokenStore
	leeway         time.Duration
	refreshTimeout time.Duration
	now            func() time.Time
	log            *logger.Logger

	mu          sync.Mutex
	token       *Token
	tokenLeeway time.Duration // leeway for token, clamped when it lives shorter than leeway
	gen         uint64
	loaded      bool

	group singleflight.Group
}

var _ httpclient.AuthenticationProvider = (*TokenProvider)(nil)

// ProviderOption customizes a TokenProvider.
type ProviderOption func(*TokenProvider)

// WithStore persists tokens in s. Defaults to a MemoryStore.
func WithStore(s TokenStore) ProviderOption {
	return func(p *TokenProvider) { p.store = s }
}

// WithLeeway sets how early before expiry a token counts as stale.
func WithLeeway(d time.Duration) ProviderOption {
	return func(p *TokenProvider) { p.leeway = d }
}

// WithRefreshTimeout bounds a single refresh, including persisting its
// result. Defaults to DefaultRefreshTimeout.
func WithRefreshTimeout(d time.Duration) ProviderOption {
	return func(p *TokenProvider) { p.refreshTimeout = d }
}

// WithInitialToken seeds the provider, overriding the store on first use.
func WithInitialToken(tok *Token) ProviderOption {
	return func(p *TokenProvider) {
		p.token = tok.clone()
		p.loaded = tok != nil
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *TokenProvider) { p.now = now }
}

// WithProviderLogger sets the logger. Defaults to logger.Get("auth").
func WithProviderLogger(l *logger.Logger) ProviderOption {
	return func(p *TokenProvider) { p.log = l }
}

// NewTokenProvider creates a provider. refresher may be nil for a provider
// that only serves stored tokens.
func NewTokenProvider(refresher Refresher, opts ...ProviderOption) *TokenProvider {
	p := &TokenProvider{
		refresher:      refresher,
		leeway:         DefaultLeeway,
		refreshTimeout: DefaultRefreshTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.refreshTimeout <= 0 {
		p.refreshTimeout = DefaultRefreshTimeout
	}
	p.tokenLeeway = p.leeway
	if p.store == nil {
		p.store = NewMemoryStore()
	}
	if p.log == nil {
		p.log = logger.Get("auth")
	}
	return p
}

// Token returns a copy of the cached token, loading it from the store on
// first use.
func (p *TokenProvider) Token(ctx context.Context) (*Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.loadLocked(ctx); err != nil {
		return nil, err
	}
	return p.token.clone(), nil
}

// SetToken replaces the cached token and persists it.
func (p *TokenProvider) SetToken(ctx context.Context, tok *Token) error {
	p.mu.Lock()
	p.token = tok.clone()
	p.tokenLeeway = p.leeway
	p.loaded = true
	p.gen++
	p.mu.Unlock()
	return p.store.Save(ctx, tok)
}

// Invalidate drops the cached access token so the next AccessToken call
// refreshes. Callers use it after an HTTP 401. The refresh token is kept.
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != nil {
		p.token = p.token.clone()
		p.token.AccessToken = ""
	}
}

// Clear forgets the token and removes it from the store.
func (p *TokenProvider) Clear(ctx context.Context) error {
	p.mu.Lock()
	p.token = nil
	p.tokenLeeway = p.leeway
	p.loaded = true
	p.gen++
	p.mu.Unlock()
	return p.store.Delete(ctx)
}

// AccessToken implements httpclient.AuthenticationProvider.
func (p *TokenProvider) AccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	if err := p.loadLocked(ctx); err != nil {
		p.mu.Unlock()
		return "", err
	}
	tok, gen, leeway := p.token, p.gen, p.tokenLeeway
	p.mu.Unlock()

	if !tok.Stale(p.now(), leeway) {
		return tok.AccessToken, nil
	}
	refreshToken := ""
	if tok != nil {
		refreshToken = tok.RefreshToken
	}
	return p.refresh(ctx, refreshToken, gen)
}

// RefreshAccessToken implements httpclient.AuthenticationProvider. It joins
// a refresh already in flight instead of starting a second one.
func (p *TokenProvider) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	p.mu.Lock()
	gen := p.gen
	p.mu.Unlock()
	return p.refresh(ctx, refreshToken, gen)
}

// refresh runs the shared refresh. seen is the generation the caller based
// its decision on; a newer fresh token is returned without refreshing again.
func (p *TokenProvider) refresh(ctx context.Context, refreshToken string, seen uint64) (string, error) {
	ch := p.group.DoChan("refresh", func() (interface{}, error) {
		p.mu.Lock()
		if p.gen != seen && !p.token.Stale(p.now(), p.tokenLeeway) {
			tok := p.token.AccessToken
			p.mu.Unlock()
			return tok, nil
		}
		p.mu.Unlock()

		if p.refresher == nil {
			return "", ErrNoRefresher
		}
		if refreshToken == "" {
			return "", ErrNoRefreshToken
		}

		// Waiters may give up, but the shared refresh must still finish.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.refreshTimeout)
		defer cancel()

		start := p.now()
		tok, err := p.refresher.Refresh(rctx, refreshToken)
		if err != nil {
			p.log.Warn("token refresh failed", logger.ErrorFields("refresh", err))
			return "", err
		}
		if tok == nil || tok.AccessToken == "" {
			return "", httpclient.ErrEmptyToken
		}
		if tok.RefreshToken == "" {
			tok.RefreshToken = refreshToken
		}

		leeway := p.leewayFor(tok, p.now())

		p.mu.Lock()
		p.token = tok.clone()
		p.tokenLeeway = leeway
		p.gen++
		p.mu.Unlock()

		if err := p.store.Save(rctx, tok); err != nil {
			p.log.Warn("token not persisted", logger.ErrorFields("save", err))
		}
		p.log.Debug("token refreshed", logger.DurationFields("refresh", p.now().Sub(start)))
		return tok.AccessToken, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// leewayFor clamps the leeway for a freshly issued token that lives shorter
// than it, so the token is not refreshed again on every call.
func (p *TokenProvider) leewayFor(tok *Token, now time.Time) time.Duration {
	if !tok.Stale(now, p.leeway) {
		return p.leeway
	}
	exp := tok.Expiry()
	var leeway time.Duration
	if exp.After(now) {
		leeway = exp.Sub(now) / 2
	}
	p.log.Warn("refreshed token expires within leeway", logger.Fields(
		"leeway", p.leeway.String(),
		"expires_at", exp.Format(time.RFC3339),
		"effective_leeway", leeway.String(),
	))
	return leeway
}

func (p *TokenProvider) loadLocked(ctx context.Context) error {
	if p.loaded {
		return nil
	}
	tok, err := p.store.Load(ctx)
	switch {
	case errors.Is(err, ErrTokenNotFound):
	case err != nil:
		return err
	default:
		p.token = tok
		p.tokenLeeway = p.leeway
	}
	p.loaded = true
	return nil
}
