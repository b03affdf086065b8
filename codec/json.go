package codec

import "github.com/bytedance/sonic"

type jsonCodec struct {
	api sonic.API
}

// JSON returns a JSON codec backed by sonic in standard-library compatible mode.
func JSON() Codec {
	return &jsonCodec{api: sonic.ConfigStd}
}

func (c *jsonCodec) Encode(v any) ([]byte, error) {
	return c.api.Marshal(v)
}

func (c *jsonCodec) Decode(data []byte, v any) error {
	return c.api.Unmarshal(data, v)
}

func (c *jsonCodec) ContentType() string { return ContentTypeJSON }
