// Package session holds the in-memory state of one uploaded image and the
// result of its latest applied transform.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adn360mx/imgopt/internal/encoder"
	"github.com/adn360mx/imgopt/internal/optimizer"
)

// DownloadPrefix is prepended to the original file name on download.
const DownloadPrefix = "optimized-"

var (
	ErrNotFound = errors.New("session not found")
	ErrNoResult = errors.New("no optimized image")
	ErrNoFile   = errors.New("no file selected")
)

// ImageSession is one upload and its optimized preview. Original fields are
// fixed at creation. Optimized fields are set together by Complete.
type ImageSession struct {
	mu sync.RWMutex

	id               string
	fileName         string
	mediaType        string
	originalEncoded  string
	originalByteSize int64
	original         optimizer.Info
	createdAt        time.Time
	updatedAt        time.Time

	optimizedEncoded  string
	optimizedByteSize int64
	optimized         *optimizer.Result

	issued  uint64 // last token handed out by Begin
	applied uint64 // token of the result currently stored
}

// Token tags one transform request.
type Token uint64

// NewFromUpload validates an uploaded file and builds a session for it.
// The bytes must decode as an image no larger than maxPixels (0 = no
// limit); otherwise no session is created.
func NewFromUpload(id, fileName, declaredType string, data []byte, maxPixels int64) (*ImageSession, error) {
	if len(data) == 0 {
		return nil, ErrNoFile
	}

	mt := optimizer.DetectMediaType(fileName, declaredType, data)
	if err := optimizer.CheckMediaType(mt); err != nil {
		return nil, err
	}

	_, info, err := optimizer.Decode(data, maxPixels)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", fileName, err)
	}

	now := time.Now()
	return &ImageSession{
		id:               id,
		fileName:         fileName,
		mediaType:        mt,
		originalEncoded:  encoder.EncodeDataURL(mt, data),
		originalByteSize: int64(len(data)),
		original:         info,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func (s *ImageSession) ID() string                   { return s.id }
func (s *ImageSession) FileName() string             { return s.fileName }
func (s *ImageSession) MediaType() string            { return s.mediaType }
func (s *ImageSession) OriginalEncoded() string      { return s.originalEncoded }
func (s *ImageSession) OriginalByteSize() int64      { return s.originalByteSize }
func (s *ImageSession) OriginalInfo() optimizer.Info { return s.original }
func (s *ImageSession) CreatedAt() time.Time         { return s.createdAt }
func (s *ImageSession) DownloadName() string         { return DownloadPrefix + s.fileName }

// UpdatedAt reports the last time the session was touched.
func (s *ImageSession) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// touch marks the session as active.
func (s *ImageSession) touch() {
	s.mu.Lock()
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// Begin issues a token for a new transform request.
func (s *ImageSession) Begin() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.updatedAt = time.Now()
	return Token(s.issued)
}

// Complete stores res if tok is newer than the token of the stored result.
// Stale completions are dropped and reported as false.
func (s *ImageSession) Complete(tok Token, res *optimizer.Result) bool {
	if res == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if uint64(tok) <= s.applied {
		return false
	}
	s.applied = uint64(tok)
	s.optimizedEncoded = res.Encoded
	s.optimizedByteSize = res.EstimatedSize
	s.optimized = res
	s.updatedAt = time.Now()
	return true
}

// Optimized returns the encoded result and its estimated size.
// ok is false when no transform has completed yet.
func (s *ImageSession) Optimized() (encoded string, size int64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.optimized == nil {
		return "", 0, false
	}
	return s.optimizedEncoded, s.optimizedByteSize, true
}

// Result returns the stored transform result, or nil.
func (s *ImageSession) Result() *optimizer.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.optimized
}

// Download returns the optimized bytes and the file name to save them under.
func (s *ImageSession) Download() ([]byte, string, error) {
	encoded, _, ok := s.Optimized()
	if !ok {
		return nil, "", ErrNoResult
	}
	_, data, err := encoder.DecodeDataURL(encoded)
	if err != nil {
		return nil, "", err
	}
	return data, s.DownloadName(), nil
}
