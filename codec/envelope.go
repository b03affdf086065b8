package codec

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Envelope returns a codec that decodes only the JSON value found at path
// (gjson syntax, e.g. "data" or "result.items"). Encoding is delegated to
// inner unchanged. A missing path is a decode error.
func Envelope(inner Codec, path string) Codec {
	return &envelopeCodec{inner: inner, path: path}
}

type envelopeCodec struct {
	inner Codec
	path  string
}

func (c *envelopeCodec) Encode(v any) ([]byte, error) {
	return c.inner.Encode(v)
}

func (c *envelopeCodec) Decode(data []byte, v any) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("codec: envelope %q: invalid json", c.path)
	}
	res := gjson.GetBytes(data, c.path)
	if !res.Exists() {
		return fmt.Errorf("codec: envelope %q: path not found", c.path)
	}
	return c.inner.Decode([]byte(res.Raw), v)
}

func (c *envelopeCodec) ContentType() string { return c.inner.ContentType() }

// DecodingContext forwards the context carried by the inner codec.
func (c *envelopeCodec) DecodingContext() Context {
	return ContextOf(c.inner)
}
