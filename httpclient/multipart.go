package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

// MultipartBody builds a multipart/form-data request body.
type MultipartBody struct {
	// Fields are simple key-value form fields, written in key order.
	Fields map[string]string
	// Files are file upload fields, written in slice order.
	Files []FileField
}

// FileField is a file to upload in a multipart request.
type FileField struct {
	FieldName string
	FileName  string
	// ContentType defaults to application/octet-stream.
	ContentType string
	// Data is the file content. Used if Reader is nil.
	Data []byte
	// Reader is read fully when Data is nil.
	Reader io.Reader
}

// Encode returns the encoded body and its Content-Type header value.
func (m *MultipartBody) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		part, err := w.CreatePart(fileHeader(f))
		if err != nil {
			return nil, "", err
		}
		switch {
		case f.Data != nil:
			_, err = part.Write(f.Data)
		case f.Reader != nil:
			_, err = io.Copy(part, f.Reader)
		}
		if err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// Attach returns a copy of req carrying the encoded body and its
// Content-Type header. req itself is not modified.
func (m *MultipartBody) Attach(req Request) (Request, error) {
	body, contentType, err := m.Encode()
	if err != nil {
		return req, &InvalidRequestError{Reason: "encode multipart body", Err: err}
	}
	headers := make(map[string]string, len(req.Headers)+1)
	for k, v := range req.Headers {
		headers[k] = v
	}
	headers[HeaderContentType.String()] = contentType
	req.Headers = headers
	req.Body = body
	return req, nil
}

func fileHeader(f FileField) textproto.MIMEHeader {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
	h.Set("Content-Type", contentType)
	return h
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
