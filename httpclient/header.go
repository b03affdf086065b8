package httpclient

import "github.com/kbukum/reqkit/codec"

// HeaderKey names an HTTP request header.
type HeaderKey string

// Common request header keys.
const (
	HeaderUserAgent      HeaderKey = "User-Agent"
	HeaderContentType    HeaderKey = "Content-Type"
	HeaderReferer        HeaderKey = "Referer"
	HeaderAcceptLanguage HeaderKey = "Accept-Language"
	HeaderAuthorization  HeaderKey = "Authorization"
	HeaderAccept         HeaderKey = "Accept"
)

func (k HeaderKey) String() string { return string(k) }

// ContentType is a MIME type used as a header value.
type ContentType string

// Common content types.
const (
	ContentTypeText ContentType = "text/plain"
	ContentTypeJSON ContentType = codec.ContentTypeJSON
	ContentTypeYAML ContentType = codec.ContentTypeYAML
)

func (c ContentType) String() string { return string(c) }
