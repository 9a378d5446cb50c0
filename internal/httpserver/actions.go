package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoicedesk/internal/export"
	"invoicedesk/internal/gate"
)

type ticketResponse struct {
	Token     string `json:"token"`
	ReadyInMs int64  `json:"readyInMs"`
}

func ticketBody(t gate.Ticket) ticketResponse {
	return ticketResponse{Token: t.Token, ReadyInMs: t.ReadyIn.Milliseconds()}
}

func (h *handlers) beginExport(c *gin.Context) {
	t, err := h.ws.BeginExport(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, ticketBody(t))
}

func (h *handlers) beginSend(c *gin.Context) {
	t, err := h.ws.BeginSend(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, ticketBody(t))
}

// actionResult polls a gated action. Pending actions answer 202 with a
// Retry-After hint until the delay has elapsed.
func (h *handlers) actionResult(c *gin.Context) {
	res, ok := h.ws.ActionResult(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown or expired action"})
		return
	}

	switch res.Status {
	case gate.StatusPending:
		c.Header("Retry-After", "1")
		c.JSON(http.StatusAccepted, gin.H{"token": res.Token, "kind": res.Kind, "status": res.Status})
		return
	case gate.StatusFailed:
		h.log.Warn("gated action failed", zap.String("token", res.Token), zap.Error(res.Err))
		c.JSON(http.StatusInternalServerError, gin.H{"token": res.Token, "kind": res.Kind, "status": res.Status, "error": "action failed"})
		return
	}

	switch v := res.Value.(type) {
	case export.Document:
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", v.FileName))
		c.Data(http.StatusOK, "application/pdf", v.Bytes)
	case export.Mail:
		c.JSON(http.StatusOK, gin.H{
			"token":   res.Token,
			"kind":    res.Kind,
			"status":  res.Status,
			"to":      v.To,
			"subject": v.Subject,
			"body":    v.Body,
			"mailto":  v.URL,
		})
	default:
		c.JSON(http.StatusOK, gin.H{"token": res.Token, "kind": res.Kind, "status": res.Status})
	}
}
