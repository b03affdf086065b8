package codec

import "gopkg.in/yaml.v3"

type yamlCodec struct{}

// YAML returns a YAML codec.
func YAML() Codec {
	return yamlCodec{}
}

func (yamlCodec) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlCodec) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (yamlCodec) ContentType() string { return ContentTypeYAML }
