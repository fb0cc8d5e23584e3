package response

import (
	"bytes"

	"github.com/Brownie44l1/http-fileserver/internal/headers"
	"github.com/Brownie44l1/http-fileserver/internal/mime"
)

// Response is a fully built reply: status, headers and body. Headers are
// always derived from the body.
type Response struct {
	Status  StatusCode
	Headers headers.Headers
	Body    []byte
}

// New builds a response whose Content-Length is the byte length of body.
func New(code StatusCode, contentType string, body []byte) *Response {
	return &Response{
		Status:  code,
		Headers: headers.ForBody(contentType, body),
		Body:    body,
	}
}

// Text builds a text/plain response
func Text(code StatusCode, body string) *Response {
	return New(code, mime.TextPlain, []byte(body))
}

// Error builds a text/plain error response. An empty message falls back
// to the reason phrase.
func Error(code StatusCode, message string) *Response {
	if message == "" {
		message = StatusText(code)
	}
	return Text(code, message)
}

// Bytes serializes the response exactly as it goes on the wire.
func (r *Response) Bytes() []byte {
	buf := &bytes.Buffer{}
	// Writes to a bytes.Buffer do not fail and the length always matches.
	_ = NewWriter(buf).WriteResponse(r)
	return buf.Bytes()
}

// TextResponse writes a simple text response
func (w *Writer) TextResponse(code StatusCode, body string) error {
	return w.WriteResponse(Text(code, body))
}

// ErrorResponse writes a standard error response
func (w *Writer) ErrorResponse(code StatusCode, message string) error {
	return w.WriteResponse(Error(code, message))
}
