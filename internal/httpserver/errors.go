package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoicedesk/internal/domain"
)

// User-facing messages for the conditions a person can fix.
const (
	msgValidation        = "Please fix the following issues."
	msgMissingRecipient  = "Please select a client with an email address."
	msgQuotaExceeded     = "Free plan allows up to 3 clients. Please upgrade for unlimited clients."
	msgDuplicateAccount  = "An account with this email already exists."
	msgInvalidCredential = "Invalid email or password."
)

// writeError maps domain errors to status codes in one place.
func (h *handlers) writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msgValidation, "problems": verr.Problems})
	case errors.Is(err, domain.ErrMissingRecipient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msgMissingRecipient})
	case errors.Is(err, domain.ErrQuotaExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": msgQuotaExceeded})
	case errors.Is(err, domain.ErrDuplicateAccount):
		c.JSON(http.StatusConflict, gin.H{"error": msgDuplicateAccount})
	case errors.Is(err, domain.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredential})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrOutOfRange),
		errors.Is(err, domain.ErrInvalidTemplate),
		errors.Is(err, domain.ErrInvalidPaymentMode),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrUnknownFlag):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
