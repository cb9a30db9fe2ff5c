package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/Domenick1991/quickrent/internal/domain"
	"github.com/gin-gonic/gin"
)

// statusFor maps an error to its HTTP status and a stable code for clients.
// Refinements are checked before the kinds they wrap.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrDateOverlap):
		return http.StatusConflict, "date_overlap"
	case errors.Is(err, domain.ErrAlreadyStarted):
		return http.StatusConflict, "already_started"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrInvalidCode):
		return http.StatusBadRequest, "invalid_code"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, domain.ErrCodeExpired):
		return http.StatusGone, "code_expired"
	case errors.Is(err, domain.ErrProfileIncomplete):
		return http.StatusPreconditionRequired, "profile_incomplete"
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}
