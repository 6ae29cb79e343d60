package encoder

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataScheme   = "data:"
	base64Marker = ";base64"

	// FallbackMediaType labels uploads whose type could not be determined.
	FallbackMediaType = "application/octet-stream"
)

var ErrMalformedDataURL = errors.New("malformed data URL")

// EncodeDataURL returns data as a self-describing base64 data URL, the form
// a FileReader or canvas export produces.
func EncodeDataURL(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = FallbackMediaType
	}
	var sb strings.Builder
	sb.Grow(len(dataScheme) + len(mediaType) + len(base64Marker) + 1 + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString(dataScheme)
	sb.WriteString(mediaType)
	sb.WriteString(base64Marker)
	sb.WriteByte(',')
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String()
}

// DecodeDataURL splits a base64 data URL into its media type and payload.
func DecodeDataURL(s string) (string, []byte, error) {
	if !strings.HasPrefix(s, dataScheme) {
		return "", nil, fmt.Errorf("%w: missing %q scheme", ErrMalformedDataURL, dataScheme)
	}
	header, payload, ok := strings.Cut(s[len(dataScheme):], ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrMalformedDataURL)
	}
	mediaType, isBase64 := strings.CutSuffix(header, base64Marker)
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrMalformedDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedDataURL, err)
	}
	return mediaType, data, nil
}
