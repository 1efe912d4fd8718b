package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "requestID"

func requestLogger(c *gin.Context, log logrus.FieldLogger) logrus.FieldLogger {
	if id := c.GetString(RequestIDKey); id != "" {
		return log.WithField("request_id", id)
	}
	return log
}
