package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/adn360mx/imgopt/internal/hasher"
	"github.com/adn360mx/imgopt/internal/optimizer"
	"github.com/adn360mx/imgopt/internal/profile"
	"github.com/adn360mx/imgopt/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// uploadField is the multipart field carrying the selected file.
const uploadField = "image"

var errTooLarge = errors.New("file too large")

type Handler struct {
	store     *session.Store
	opt       *optimizer.Optimizer
	defaults  profile.Params
	maxUpload int64
	log       *zap.Logger
}

func NewHandler(store *session.Store, opt *optimizer.Optimizer, defaults profile.Params, maxUpload int64, log *zap.Logger) *Handler {
	return &Handler{
		store:     store,
		opt:       opt,
		defaults:  defaults,
		maxUpload: maxUpload,
		log:       log,
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNoFile),
		errors.Is(err, profile.ErrQualityRange),
		errors.Is(err, profile.ErrMaxWidthRange):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrNoResult):
		return http.StatusNotFound
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, optimizer.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, optimizer.ErrDecodeFailed), errors.Is(err, optimizer.ErrContextUnavailable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.log.Error("request error", zap.Error(err))
	} else {
		h.log.Warn("request rejected", zap.Int("status", code), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(code, gin.H{"error": err.Error()})
}

// readUpload pulls the selected file out of a multipart form.
func (h *Handler) readUpload(c *gin.Context) (name, declared string, data []byte, err error) {
	// Leave headroom for the multipart envelope around the file.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)

	fh, err := c.FormFile(uploadField)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return "", "", nil, fmt.Errorf("%w (max %d bytes)", errTooLarge, h.maxUpload)
		}
		return "", "", nil, session.ErrNoFile
	}
	if fh.Size > h.maxUpload {
		return "", "", nil, fmt.Errorf("%w (max %d bytes)", errTooLarge, h.maxUpload)
	}

	f, err := fh.Open()
	if err != nil {
		return "", "", nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		return "", "", nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > h.maxUpload {
		return "", "", nil, fmt.Errorf("%w (max %d bytes)", errTooLarge, h.maxUpload)
	}
	return fh.Filename, fh.Header.Get("Content-Type"), data, nil
}

// upload creates a session from the request, replacing the one named in
// the "replace" field. Failures leave the previous session in place.
func (h *Handler) upload(c *gin.Context) (*session.ImageSession, error) {
	name, declared, data, err := h.readUpload(c)
	if err != nil {
		return nil, err
	}
	sess, err := h.store.Create(name, declared, data, c.PostForm("replace"))
	if err != nil {
		return nil, err
	}
	info := sess.OriginalInfo()
	h.log.Info("image uploaded",
		zap.String("session_id", sess.ID()),
		zap.String("file", name),
		zap.String("media_type", sess.MediaType()),
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.Int64("size", sess.OriginalByteSize()))
	return sess, nil
}

// optimize runs one tagged transform. applied is false when a newer
// request finished first and this result was discarded.
func (h *Handler) optimize(ctx context.Context, sess *session.ImageSession, p profile.Params) (applied bool, err error) {
	tok := sess.Begin()
	res, err := h.opt.Optimize(ctx, sess.OriginalEncoded(), p)
	if err != nil {
		return false, err
	}
	applied = sess.Complete(tok, res)
	h.log.Info("image optimized",
		zap.String("session_id", sess.ID()),
		zap.Uint64("token", uint64(tok)),
		zap.Bool("applied", applied),
		zap.Int("quality", p.Quality),
		zap.Int("max_width", p.MaxWidth),
		zap.Int64("estimated_size", res.EstimatedSize))
	return applied, nil
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(c *gin.Context) {
	sess, err := h.upload(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionView(sess))
}

// GetSession handles GET /api/sessions/:id.
func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(sess))
}

// DeleteSession handles DELETE /api/sessions/:id.
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.store.Delete(c.Param("id")) {
		h.writeError(c, session.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// OptimizeSession handles POST /api/sessions/:id/optimize. Missing
// parameters fall back to the configured defaults.
func (h *Handler) OptimizeSession(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	var req profile.Params
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return
	}

	applied, err := h.optimize(c.Request.Context(), sess, h.defaults.Override(req))
	if err != nil {
		h.writeError(c, err)
		return
	}
	v := newSessionView(sess)
	v.Stale = !applied
	c.JSON(http.StatusOK, v)
}

// Download serves the optimized JPEG as an attachment named
// optimized-<original file name>.
func (h *Handler) Download(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	data, name, err := sess.Download()
	if err != nil {
		h.writeError(c, err)
		return
	}

	etag := hasher.ETag(data)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("ETag", etag)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, h.opt.Encoder().MediaType(), data)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "sessions": h.store.Len()})
}
