// Package codec defines how request bodies are encoded and response bodies
// are decoded by the httpclient pipeline.
//
// A Codec may carry a decoding context: an arbitrary caller value that is
// handed back alongside every value the codec decodes.
//
//	c := codec.WithContext(codec.JSON(), tenant)
//	resp, err := httpclient.SendResponse(ctx, client, tmpl)
//	// resp.Context == tenant
//
// Envelope codecs select a sub-document before decoding:
//
//	c := codec.Envelope(codec.JSON(), "data.items")
package codec
