package response

import (
	"fmt"
	"io"

	"github.com/Brownie44l1/http-fileserver/internal/headers"
)

// writerState tracks what's been written so far
type writerState int

const (
	stateStart writerState = iota
	stateStatusWritten
	stateHeadersWritten
	stateBodyWritten
)

// Writer writes one HTTP response to an io.Writer, enforcing the order
// status line, headers, body.
type Writer struct {
	w             io.Writer
	state         writerState
	statusCode    StatusCode
	contentLength int
	bodyWritten   int
	hadError      bool
}

// NewWriter creates a new response writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:             w,
		state:         stateStart,
		contentLength: -1,
	}
}

// WriteStatusLine writes the HTTP status line
func (w *Writer) WriteStatusLine(code StatusCode) error {
	if w.state != stateStart {
		return fmt.Errorf("status line already written")
	}

	_, err := fmt.Fprintf(w.w, "HTTP/1.1 %s\r\n", code.StatusLine())
	if err != nil {
		w.hadError = true
		return err
	}

	w.statusCode = code
	w.state = stateStatusWritten
	return nil
}

// WriteHeaders writes the header block and the blank line after it
func (w *Writer) WriteHeaders(h headers.Headers) error {
	if w.state != stateStatusWritten {
		return fmt.Errorf("must write status line before headers")
	}

	if _, err := h.WriteTo(w.w); err != nil {
		w.hadError = true
		return err
	}

	w.contentLength = h.ContentLength
	w.state = stateHeadersWritten
	return nil
}

// WriteBody writes the complete response body. It refuses a body whose
// size differs from the declared Content-Length.
func (w *Writer) WriteBody(data []byte) error {
	if w.state != stateHeadersWritten {
		return fmt.Errorf("must write headers before body")
	}

	if len(data) != w.contentLength {
		w.hadError = true
		return fmt.Errorf("body is %d bytes, Content-Length declared %d", len(data), w.contentLength)
	}

	if len(data) > 0 {
		n, err := w.w.Write(data)
		w.bodyWritten += n
		if err != nil {
			w.hadError = true
			return err
		}
	}

	w.state = stateBodyWritten
	return nil
}

// WriteResponse writes status line, headers and body of r in order.
func (w *Writer) WriteResponse(r *Response) error {
	if err := w.WriteStatusLine(r.Status); err != nil {
		return err
	}
	if err := w.WriteHeaders(r.Headers); err != nil {
		return err
	}
	return w.WriteBody(r.Body)
}

func (w *Writer) HadError() bool {
	return w.hadError
}

// Started reports whether any part of a response has been written.
func (w *Writer) Started() bool {
	return w.state != stateStart
}

func (w *Writer) StatusCode() StatusCode {
	return w.statusCode
}
