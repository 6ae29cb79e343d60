package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adn360mx/imgopt/internal/profile"
	"github.com/adn360mx/imgopt/internal/session"
	"github.com/gin-gonic/gin"
)

// formParams reads slider values from a query string or posted form.
// Missing or unparsable values fall back to the defaults.
func (h *Handler) formParams(get func(string) string) profile.Params {
	p := h.defaults
	if q, err := strconv.Atoi(get("quality")); err == nil {
		p.Quality = q
	}
	if w, err := strconv.Atoi(get("max_width")); err == nil {
		p.MaxWidth = w
	}
	return p
}

func (h *Handler) renderPage(c *gin.Context, code int, sess *session.ImageSession, p profile.Params, err error) {
	var v *SessionView
	if sess != nil {
		v = newSessionView(sess)
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	c.HTML(code, "index.html", newPageData(v, p, msg))
}

func sessionURL(id string, p profile.Params) string {
	q := url.Values{}
	q.Set("quality", strconv.Itoa(p.Quality))
	q.Set("max_width", strconv.Itoa(p.MaxWidth))
	return "/s/" + url.PathEscape(id) + "?" + q.Encode()
}

// Index handles GET /: the upload zone with no image loaded.
func (h *Handler) Index(c *gin.Context) {
	h.renderPage(c, http.StatusOK, nil, h.formParams(c.Query), nil)
}

// Page handles GET /s/:id.
func (h *Handler) Page(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.renderPage(c, http.StatusOK, sess, h.formParams(c.Query), nil)
}

// UploadForm handles POST /upload from the upload zone.
func (h *Handler) UploadForm(c *gin.Context) {
	// upload installs the body limit, so it must read the form first.
	sess, err := h.upload(c)
	p := h.formParams(c.PostForm)
	if err == nil {
		c.Redirect(http.StatusSeeOther, sessionURL(sess.ID(), p))
		return
	}

	// Keep showing whatever was loaded before.
	prior, _ := h.store.Get(c.PostForm("replace"))
	if errors.Is(err, session.ErrNoFile) {
		if prior != nil {
			c.Redirect(http.StatusSeeOther, sessionURL(prior.ID(), p))
		} else {
			c.Redirect(http.StatusSeeOther, "/")
		}
		return
	}
	h.renderPage(c, statusFor(err), prior, p, err)
}

// OptimizeForm handles POST /s/:id/optimize from the optimize button.
func (h *Handler) OptimizeForm(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	p := h.formParams(c.PostForm)
	if _, err := h.optimize(c.Request.Context(), sess, p); err != nil {
		h.renderPage(c, statusFor(err), sess, p, err)
		return
	}
	c.Redirect(http.StatusSeeOther, sessionURL(sess.ID(), p))
}
