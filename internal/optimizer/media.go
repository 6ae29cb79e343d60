package optimizer

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

var ErrUnsupportedMedia = errors.New("unsupported media type")

// imageExtensions maps recognized image file extensions to media types,
// the way a file picker labels a selected file.
var imageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
}

// DetectMediaType picks the media type for an upload: the declared type
// when it is specific, then the file extension, then content sniffing.
func DetectMediaType(fileName, declared string, data []byte) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if mt, ok := imageExtensions[ext]; ok {
		return mt
	}

	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}

// IsImageMediaType reports whether mt matches the picker filter image/*.
func IsImageMediaType(mt string) bool {
	return strings.HasPrefix(mt, "image/")
}

// CheckMediaType returns ErrUnsupportedMedia for anything outside image/*.
func CheckMediaType(mt string) error {
	if !IsImageMediaType(mt) {
		return fmt.Errorf("%w: %q", ErrUnsupportedMedia, mt)
	}
	return nil
}

// FormatName normalizes a media type or decoder name to a short format name.
func FormatName(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), "image/")
	switch s {
	case "jpg", "pjpeg":
		return "jpeg"
	case "tif":
		return "tiff"
	case "x-ms-bmp":
		return "bmp"
	}
	return s
}
