// util/http_util.go
package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	echo_errors "github.com/dev-mohitbeniwal/accessledger/errors"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
)

// ContextUserIDKey is where the auth middleware stores the caller's id.
const ContextUserIDKey = "requestingUserID"

func RespondWithError(c *gin.Context, code int, message string, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	}
	if code >= http.StatusInternalServerError {
		logger.Error(message, fields...)
	} else {
		logger.Warn(message, fields...)
	}
	c.JSON(code, gin.H{"error": message})
}

// StatusForError maps the error taxonomy onto HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, echo_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, echo_errors.ErrInvalidPermission), errors.Is(err, echo_errors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, echo_errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, echo_errors.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, echo_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithServiceError answers with the status that matches err. Server
// errors hide their detail behind message.
func RespondWithServiceError(c *gin.Context, message string, err error) {
	code := StatusForError(err)
	if code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable {
		RespondWithError(c, code, message, err)
		return
	}
	RespondWithError(c, code, err.Error(), err)
}

func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", echo_errors.ErrUnauthorized
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", echo_errors.ErrUnauthorized
	}
	return id, nil
}
