package files

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

var ErrNotText = errors.New("file is not valid UTF-8 text")

// ReadText loads the whole file at path. It returns nothing unless the
// complete contents were read and are valid UTF-8.
func ReadText(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrNotText, path)
	}

	return data, nil
}
