// Package handler provides the HTTP handlers for the page, audio and live-update endpoints.
package handler

import (
	"bytes"
	"net/http"

	"github.com/abstractedfox/gameengine/internal/page"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PageHandler serves the site root.
type PageHandler struct {
	renderer *page.Renderer
	log      logrus.FieldLogger
}

// NewPageHandler creates a new page handler
func NewPageHandler(renderer *page.Renderer, log logrus.FieldLogger) *PageHandler {
	return &PageHandler{renderer: renderer, log: log}
}

// Index renders the page template
func (h *PageHandler) Index(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.renderer.Render(c.Request.Context(), &buf); err != nil {
		requestLogger(c, h.log).WithError(err).Error("failed to render page")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to render page",
		})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
