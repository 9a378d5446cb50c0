package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	clientsvc "invoicedesk/internal/service/client"
)

type clientRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"abn"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (r clientRequest) input() clientsvc.Input {
	return clientsvc.Input{
		Name:    r.Name,
		TaxID:   r.TaxID,
		Address: r.Address,
		Phone:   r.Phone,
		Email:   r.Email,
	}
}

func (h *handlers) listClients(c *gin.Context) {
	clients, err := h.ws.ListClients(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *handlers) createClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	client, err := h.ws.SaveClient(c.Request.Context(), "", req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *handlers) updateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	client, err := h.ws.SaveClient(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// deleteClient is irreversible, so the caller must confirm explicitly.
func (h *handlers) deleteClient(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if !confirmed {
		c.JSON(http.StatusPreconditionRequired, gin.H{
			"error": "Deleting a client cannot be undone. Repeat the request with confirm=true.",
		})
		return
	}
	if err := h.ws.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
