package httpclient

import (
	"fmt"
	"strings"
)

// Method is an HTTP request method.
type Method string

// Supported HTTP methods.
const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodPatch   Method = "PATCH"
)

var methods = []Method{
	MethodGet, MethodHead, MethodPost, MethodPut, MethodDelete,
	MethodConnect, MethodOptions, MethodTrace, MethodPatch,
}

// Methods returns every supported method.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// String returns the uppercase wire form of the method.
func (m Method) String() string {
	return string(m)
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	for _, known := range methods {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMethod parses a method name case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("httpclient: unknown method %q", s)
	}
	return m, nil
}
