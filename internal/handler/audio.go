package handler

import (
	"net/http"

	"github.com/abstractedfox/gameengine/internal/audio"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AudioHandler serves audio directory listings
type AudioHandler struct {
	lister *audio.Lister
	log    logrus.FieldLogger
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(lister *audio.Lister, log logrus.FieldLogger) *AudioHandler {
	return &AudioHandler{lister: lister, log: log}
}

// List returns the audio file names as one pipe-prefixed string,
// e.g. "|intro.mp3|loop.wav". No matches yields an empty body.
func (h *AudioHandler) List(c *gin.Context) {
	names, err := h.lister.List(c.Request.Context())
	if err != nil {
		requestLogger(c, h.log).WithError(err).Error("failed to list audio files")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to list audio files",
		})
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(audio.FormatPipe(names)))
}

// Tracks returns the audio files with size and tag metadata
func (h *AudioHandler) Tracks(c *gin.Context) {
	tracks, err := h.lister.Tracks(c.Request.Context())
	if err != nil {
		requestLogger(c, h.log).WithError(err).Error("failed to scan audio tracks")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to scan audio tracks",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tracks": tracks,
		"count":  len(tracks),
	})
}
