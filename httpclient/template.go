package httpclient

import (
	"reflect"

	"github.com/kbukum/reqkit/codec"
)

// Template describes one API call producing a value of type T.
type Template[T any] interface {
	// Request returns the declarative description of the call.
	Request() Request
	// Decode turns a successful response into T. The returned context is
	// surfaced in Response.Context.
	Decode(raw *RawResponse, c codec.Codec) (T, codec.Context, error)
}

// EmptyBodyAllowed is implemented by templates that accept a zero-length
// success body.
type EmptyBodyAllowed interface {
	AllowEmptyBody() bool
}

// DecodeFunc decodes a raw response into T.
type DecodeFunc[T any] func(raw *RawResponse, c codec.Codec) (T, error)

// Endpoint is a ready-made Template. Without DecodeFunc, the body is decoded
// with the client codec.
//
//	tmpl := httpclient.Endpoint[Event]{Spec: httpclient.Request{
//	    Path: httpclient.NewPath("events", "123").String(),
//	}}
type Endpoint[T any] struct {
	Spec       Request
	DecodeFunc DecodeFunc[T]
	AllowEmpty bool
}

// NewEndpoint returns an Endpoint for a method and path.
func NewEndpoint[T any](method Method, path string) Endpoint[T] {
	return Endpoint[T]{Spec: Request{Method: method, Path: path}}
}

// Request implements Template.
func (e Endpoint[T]) Request() Request { return e.Spec }

// AllowEmptyBody implements EmptyBodyAllowed.
func (e Endpoint[T]) AllowEmptyBody() bool { return e.AllowEmpty }

// Decode implements Template.
func (e Endpoint[T]) Decode(raw *RawResponse, c codec.Codec) (T, codec.Context, error) {
	if e.DecodeFunc != nil {
		v, err := e.DecodeFunc(raw, c)
		return v, codec.ContextOf(c), err
	}
	return DecodeWith[T](raw, c)
}

// DecodeWith decodes raw.Body into T using c and returns the codec's
// decoding context. Templates can call it from their own Decode.
func DecodeWith[T any](raw *RawResponse, c codec.Codec) (T, codec.Context, error) {
	var v T
	if _, ok := any(v).(Empty); ok || len(raw.Body) == 0 {
		return v, codec.ContextOf(c), nil
	}
	if err := c.Decode(raw.Body, &v); err != nil {
		return v, nil, err
	}
	return v, codec.ContextOf(c), nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func acceptsEmptyBody[T any](tmpl Template[T]) bool {
	if typeOf[T]() == reflect.TypeOf(Empty{}) {
		return true
	}
	if eb, ok := any(tmpl).(EmptyBodyAllowed); ok {
		return eb.AllowEmptyBody()
	}
	return false
}
