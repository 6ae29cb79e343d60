package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to hexLen (0 or out of range = full 16 chars).
func ContentHash(data []byte, hexLen int) string {
	return truncHex(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncHex(h.Sum64(), hexLen), nil
}

// SessionID derives a session identifier from the uploaded bytes and a
// store-local sequence number, so re-uploading the same file yields a new id.
func SessionID(data []byte, seq uint64) string {
	return fmt.Sprintf("%s-%d", ContentHash(data, 12), seq)
}

// ETag returns a strong entity tag for a response body.
func ETag(data []byte) string {
	return `"` + ContentHash(data, 0) + `"`
}

func truncHex(v uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
