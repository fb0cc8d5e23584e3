package response

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Brownie44l1/http-fileserver/internal/headers"
)

var (
	ErrMalformedStatusLine = errors.New("malformed status line")
	ErrBodyTooLarge        = errors.New("response body too large")
)

const (
	// maxHeaderBlock bounds how much ReadResponse buffers before the body.
	maxHeaderBlock = 8192
	// MaxBodySize is the largest Content-Length ReadResponse accepts.
	MaxBodySize = 64 << 20
)

// ReadResponse parses one response as written by Writer: status line,
// header block, then exactly Content-Length bytes of body.
func ReadResponse(reader *bufio.Reader) (*Response, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read status line: %w", err)
	}

	code, err := parseStatusLine(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return nil, err
	}

	var block []byte
	h := headers.Headers{}
	for {
		l, err := reader.ReadSlice('\n')
		if err != nil {
			return nil, fmt.Errorf("read headers: %w", err)
		}
		block = append(block, l...)
		if len(block) > maxHeaderBlock {
			return nil, fmt.Errorf("%w: header block too large", headers.ErrMalformedHeader)
		}

		_, done, err := h.Parse(block)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	if h.ContentLength > MaxBodySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, h.ContentLength)
	}

	body := make([]byte, h.ContentLength)
	if _, err := io.ReadFull(reader, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{Status: code, Headers: h, Body: body}, nil
}

func parseStatusLine(line string) (StatusCode, error) {
	version, rest, ok := strings.Cut(line, " ")
	if !ok || version != "HTTP/1.1" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedStatusLine, line)
	}

	codeText, _, _ := strings.Cut(rest, " ")
	code, err := strconv.Atoi(codeText)
	if err != nil || code < 100 || code > 999 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedStatusLine, line)
	}

	return StatusCode(code), nil
}
