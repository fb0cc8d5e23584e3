package request

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// MaxRequestSize is how much of a request is ever read. Anything past it,
// including headers and bodies, is ignored.
const MaxRequestSize = 1024

var (
	ErrEmptyRequest         = errors.New("empty request")
	ErrMalformedRequestLine = errors.New("malformed request line")
)

type RequestLine struct {
	Method        string
	RequestTarget string
	HttpVersion   string
}

type Request struct {
	RequestLine RequestLine
	// Line is the first line of the request after lossy decoding.
	Line string
}

// RequestFromReader performs a single read of at most MaxRequestSize bytes
// and parses the request line out of it.
func RequestFromReader(reader io.Reader) (*Request, error) {
	return ReadRequest(reader, make([]byte, MaxRequestSize))
}

// ReadRequest is RequestFromReader with a caller-owned buffer. The read is
// never retried, so a request split across packets may parse short.
func ReadRequest(reader io.Reader, buf []byte) (*Request, error) {
	if len(buf) > MaxRequestSize {
		buf = buf[:MaxRequestSize]
	}

	n, err := reader.Read(buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, ErrEmptyRequest
		}
		return nil, fmt.Errorf("read request: %w", err)
	}

	line := firstLine(Decode(buf[:n]))

	rl, err := ParseRequestLine(line)
	if err != nil {
		return &Request{Line: line}, err
	}

	return &Request{RequestLine: *rl, Line: line}, nil
}

// Decode converts b to a string, replacing invalid UTF-8 with U+FFFD.
func Decode(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(out)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimRight(s, "\r")
}

// ParseRequestLine splits METHOD SP TARGET [SP VERSION]. Only the target
// is required; method and version are recorded but not validated.
func ParseRequestLine(line string) (*RequestLine, error) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}

	rl := &RequestLine{
		Method:        parts[0],
		RequestTarget: parts[1],
	}
	if len(parts) > 2 {
		rl.HttpVersion = parts[2]
	}
	return rl, nil
}
