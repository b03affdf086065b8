package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Build turns a Request into a WireRequest using cfg for the base URL,
// service headers and authentication.
//
// Service headers are applied in order: cfg.Headers, User-Agent, then the
// bearer token when req.Auth is AuthBearer. Request headers are applied last
// and win on collision. Build never sends anything.
func Build(ctx context.Context, req Request, cfg Config) (*WireRequest, error) {
	u, err := resolveURL(req, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = MethodGet
	}
	if !method.Valid() {
		return nil, &InvalidRequestError{Reason: "unsupported method " + string(method)}
	}

	header := make(http.Header, len(cfg.Headers)+len(req.Headers)+2)
	for k, v := range cfg.Headers {
		header.Set(k, v)
	}
	if cfg.UserAgent != "" {
		header.Set(HeaderUserAgent.String(), cfg.UserAgent)
	}
	if req.Auth == AuthBearer {
		token, err := bearerToken(ctx, cfg.Authentication)
		if err != nil {
			return nil, err
		}
		header.Set(HeaderAuthorization.String(), "Bearer "+token)
	}
	for k, v := range req.Headers {
		header.Set(k, v)
	}

	return &WireRequest{
		URL:    u,
		Method: method.String(),
		Header: header,
		Body:   req.Body,
	}, nil
}

func resolveURL(req Request, baseURL string) (*url.URL, error) {
	raw := req.URL
	if raw == "" {
		raw = baseURL
	}
	if raw == "" {
		return nil, &InvalidRequestError{Reason: "no URL and no base URL configured"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidRequestError{Reason: "malformed URL", Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &InvalidRequestError{Reason: "URL " + raw + " needs a scheme and host"}
	}

	u.Path = NewPath(req.Path).String()
	u.RawPath = ""
	if len(req.Query) > 0 {
		u.RawQuery = encodeQuery(req.Query)
	}
	if u.RawQuery == "" {
		u.ForceQuery = false
	}
	u.Fragment = ""
	return u, nil
}

// encodeQuery encodes items in order. url.Values would sort them.
func encodeQuery(items []QueryItem) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(item.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(item.Value))
	}
	return b.String()
}

func bearerToken(ctx context.Context, provider AuthenticationProvider) (string, error) {
	if provider == nil {
		return "", &MissingAPIKeyError{}
	}
	token, err := provider.AccessToken(ctx)
	if err != nil {
		return "", &AuthenticationError{Err: err}
	}
	if token == "" {
		return "", &AuthenticationError{Err: ErrEmptyToken}
	}
	return token, nil
}
