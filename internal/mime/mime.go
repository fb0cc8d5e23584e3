package mime

import (
	"path/filepath"
	"strings"
)

const (
	TextPlain             = "text/plain"
	ImagePNG              = "image/png"
	ImageJPEG             = "image/jpeg"
	ApplicationJSON       = "application/json"
	ApplicationJavaScript = "application/javascript"
)

var byExtension = map[string]string{
	"png":  ImagePNG,
	"jpg":  ImageJPEG,
	"json": ApplicationJSON,
	"js":   ApplicationJavaScript,
}

// Resolve maps a filename to a content type by the text after its last
// dot. Unknown or missing extensions map to text/plain.
func Resolve(name string) string {
	base := filepath.Base(name)

	idx := strings.LastIndexByte(base, '.')
	if idx == -1 {
		return TextPlain
	}

	if ct, ok := byExtension[base[idx+1:]]; ok {
		return ct
	}
	return TextPlain
}
