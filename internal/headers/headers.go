package headers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrMalformedHeader      = errors.New("malformed header")
	ErrInvalidContentLength = errors.New("invalid content-length")
	ErrMissingContentLength = errors.New("missing content-length")
)

var crlf = []byte("\r\n")

// Headers is the fixed header block of a response. Content-Type is always
// written before Content-Length.
type Headers struct {
	ContentType   string
	ContentLength int

	sawLength bool
}

// ForBody builds headers whose length is taken from body.
func ForBody(contentType string, body []byte) Headers {
	return Headers{
		ContentType:   contentType,
		ContentLength: len(body),
	}
}

// Get returns a header value by case-insensitive name.
func (h Headers) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "content-type":
		return h.ContentType, true
	case "content-length":
		return strconv.Itoa(h.ContentLength), true
	default:
		return "", false
	}
}

// Lines returns the header lines in wire order, without line endings.
func (h Headers) Lines() []string {
	return []string{
		"Content-Type: " + h.ContentType,
		"Content-Length: " + strconv.Itoa(h.ContentLength),
	}
}

// WriteTo writes every header line followed by the blank line that ends
// the header block.
func (h Headers) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for _, line := range h.Lines() {
		buf.WriteString(line)
		buf.Write(crlf)
	}
	buf.Write(crlf)

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// Parse reads header lines from data until the blank line. It returns the
// bytes consumed and whether the block is complete. Headers other than
// Content-Type and Content-Length are validated and then ignored.
func (h *Headers) Parse(data []byte) (int, bool, error) {
	read := 0

	for {
		idx := bytes.Index(data[read:], crlf)
		if idx == -1 {
			// Need more data
			return read, false, nil
		}

		if idx == 0 {
			read += 2
			if !h.sawLength {
				return read, true, ErrMissingContentLength
			}
			return read, true, nil
		}

		line := data[read : read+idx]
		if line[0] == ' ' || line[0] == '\t' {
			return read, false, fmt.Errorf("%w: obsolete line folding", ErrMalformedHeader)
		}

		name, value, err := parseHeader(line)
		if err != nil {
			return read, false, err
		}

		switch name {
		case "content-type":
			h.ContentType = value
		case "content-length":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return read, false, fmt.Errorf("%w: %q", ErrInvalidContentLength, value)
			}
			h.ContentLength = n
			h.sawLength = true
		}

		read += idx + 2
	}
}

func parseHeader(line []byte) (string, string, error) {
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return "", "", fmt.Errorf("%w: no colon", ErrMalformedHeader)
	}

	name := line[:colonIdx]
	value := line[colonIdx+1:]

	if len(name) == 0 || bytes.ContainsAny(name, " \t") {
		return "", "", fmt.Errorf("%w: bad name %q", ErrMalformedHeader, name)
	}

	for _, b := range name {
		if !isValidHeaderChar(b) {
			return "", "", fmt.Errorf("%w: invalid character %q in name", ErrMalformedHeader, b)
		}
	}

	return strings.ToLower(string(name)), string(bytes.TrimSpace(value)), nil
}

func isValidHeaderChar(b byte) bool {
	return (b >= 'A' && b <= 'Z') ||
		(b >= 'a' && b <= 'z') ||
		(b >= '0' && b <= '9') ||
		b == '!' || b == '#' || b == '$' || b == '%' || b == '&' ||
		b == '\'' || b == '*' || b == '+' || b == '-' || b == '.' ||
		b == '^' || b == '_' || b == '`' || b == '|' || b == '~'
}
