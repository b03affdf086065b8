package codec

import (
	"fmt"
	"strings"
)

// Content types produced by the built-in codecs.
const (
	ContentTypeJSON = "application/json"
	ContentTypeYAML = "application/yaml"
)

// Codec encodes values into request bodies and decodes response bodies.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	ContentType() string
}

// Context is caller-defined metadata attached to a codec. It is returned
// unchanged alongside each decoded value.
type Context interface{}

// ContextCarrier is implemented by codecs that carry a decoding context.
type ContextCarrier interface {
	DecodingContext() Context
}

// ContextOf returns the decoding context carried by c, or nil.
func ContextOf(c Codec) Context {
	if cc, ok := c.(ContextCarrier); ok {
		return cc.DecodingContext()
	}
	return nil
}

// WithContext returns a codec that behaves like c and carries ctx.
func WithContext(c Codec, ctx Context) Codec {
	return &contextCodec{Codec: c, ctx: ctx}
}

type contextCodec struct {
	Codec
	ctx Context
}

func (c *contextCodec) DecodingContext() Context { return c.ctx }

// ByName returns a built-in codec by its configuration name.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSON(), nil
	case "yaml", "yml":
		return YAML(), nil
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}
