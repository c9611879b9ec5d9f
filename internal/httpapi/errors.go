package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/tutor_scheduler/internal/apperror"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// retryAfterSeconds подсказка клиенту при 503
const retryAfterSeconds = "1"

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError отвечает {"error": ...}. Детали внутренних ошибок только в лог.
func (h *Handler) writeError(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	status := statusFor(kind)

	switch kind {
	case apperror.KindInternal:
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", requestID(c)),
			zap.Error(err))
	case apperror.KindUnavailable:
		c.Header("Retry-After", retryAfterSeconds)
		h.logger.Warn("Request hit lock contention",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	c.AbortWithStatusJSON(status, gin.H{"error": apperror.Message(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
