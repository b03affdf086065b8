package httpclient

import (
	"net/http"
	"net/url"

	"github.com/kbukum/reqkit/codec"
)

// AuthRequirement declares whether a request needs a bearer token.
type AuthRequirement int

const (
	// AuthNone sends the request without an Authorization header.
	AuthNone AuthRequirement = iota
	// AuthBearer attaches "Authorization: Bearer <token>" from the client's
	// authentication provider.
	AuthBearer
)

// QueryItem is a single query parameter. Order is preserved and names may
// repeat.
type QueryItem struct {
	Name  string
	Value string
}

// Query builds query items from alternating name/value pairs.
//
//	httpclient.Query("page", "2", "tag", "a", "tag", "b")
func Query(pairs ...string) []QueryItem {
	items := make([]QueryItem, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, QueryItem{Name: pairs[i], Value: pairs[i+1]})
	}
	return items
}

// Request declaratively describes a single API call. It is owned by the
// caller and never mutated by the client.
type Request struct {
	// URL overrides the client's BaseURL when non-empty.
	URL string
	// Method defaults to GET when empty.
	Method Method
	// Path replaces the path of the resolved base URL.
	Path string
	// Query is appended in order. No "?" is written when empty.
	Query []QueryItem
	// Headers override service default headers on collision.
	Headers map[string]string
	// Body is sent verbatim.
	Body []byte
	// Auth declares whether a bearer token must be attached.
	Auth AuthRequirement
}

// WireRequest is the concrete request handed to a Transport. A fresh value
// is built for every call.
type WireRequest struct {
	URL    *url.URL
	Method string
	Header http.Header
	Body   []byte
}

// RawResponse is the transport-level view of an HTTP response.
type RawResponse struct {
	StatusCode int
	// Status is the full status line value, e.g. "404 Not Found".
	Status string
	Header http.Header
	Body   []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *RawResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Response is a decoded value together with its transport metadata and the
// decoding context carried by the codec.
type Response[T any] struct {
	Value   T
	Raw     *RawResponse
	Context codec.Context
}

// Empty is an output type for calls whose success body is ignored. Templates
// producing Empty accept zero-length bodies.
type Empty struct{}
