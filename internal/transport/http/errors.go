package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"study-quiz-service/internal/domain"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidOptionKey):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownQuestion), errors.Is(err, domain.ErrNoQuiz):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoAnswers), errors.Is(err, domain.ErrEmptyContent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrGeneration):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messageFor hides internal error details from clients.
func messageFor(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": messageFor(err)})
}
