package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"invoicedesk/internal/document"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/render"
	"invoicedesk/internal/service/workspace"
)

func (h *handlers) respondState(c *gin.Context, status int, st workspace.State, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, st)
}

func (h *handlers) getInvoice(c *gin.Context) {
	st, err := h.ws.Current(c.Request.Context())
	h.respondState(c, http.StatusOK, st, err)
}

func (h *handlers) resetInvoice(c *gin.Context) {
	st, err := h.ws.Reset(c.Request.Context())
	h.respondState(c, http.StatusOK, st, err)
}

func (h *handlers) patchInvoice(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "body must be an object of string fields")
		return
	}
	fields := make(map[document.Field]string, len(body))
	for k, v := range body {
		fields[document.Field(k)] = v
	}
	st, err := h.ws.SetFields(c.Request.Context(), fields)
	h.respondState(c, http.StatusOK, st, err)
}

func (h *handlers) patchIssuer(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "body must be an object of string fields")
		return
	}
	fields := make(map[document.IssuerField]string, len(body))
	for k, v := range body {
		fields[document.IssuerField(k)] = v
	}
	st, err := h.ws.SetIssuerFields(c.Request.Context(), fields)
	h.respondState(c, http.StatusOK, st, err)
}

func (h *handlers) patchPayment(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "body must be an object of string fields")
		return
	}
	fields := make(map[document.PaymentField]string, len(body))
	for k, v := range body {
		fields[document.PaymentField(k)] = v
	}
	st, err := h.ws.SetPaymentFields(c.Request.Context(), fields)
	h.respondState(c, http.StatusOK, st, err)
}

func (h *handlers) addItem(c *gin.Context) {
	st, index, err := h.ws.AddItem(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"index": index, "invoice": st.Invoice, "totals": st.Totals})
}

func itemIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "item index must be an integer")
		return 0, false
	}
	return index, true
}

func (h *handlers) patchItem(c *gin.Context) {
	index, ok := itemIndex(c)
	if !ok {
		return
	}
	var patch document.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid item patch")
		return
	}
	st, err := h.ws.SetItem(c.Request.Context(), index, patch)
	h.respondState(c, http.StatusOK, st, err)
}

func (h *handlers) deleteItem(c *gin.Context) {
	index, ok := itemIndex(c)
	if !ok {
		return
	}
	st, err := h.ws.RemoveItem(c.Request.Context(), index)
	h.respondState(c, http.StatusOK, st, err)
}

type selectClientRequest struct {
	ClientID *string `json:"clientId"`
}

// selectClient accepts a null or empty id to clear the bill-to party.
func (h *handlers) selectClient(c *gin.Context) {
	var req selectClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	id := ""
	if req.ClientID != nil {
		id = *req.ClientID
	}
	st, err := h.ws.SelectClient(c.Request.Context(), id)
	h.respondState(c, http.StatusOK, st, err)
}

type displayFlagRequest struct {
	Value *bool `json:"value"`
}

func (h *handlers) setDisplayFlag(c *gin.Context) {
	flag, err := document.ParseFlag(c.Param("flag"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	var req displayFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil {
		badRequest(c, "body must be {\"value\": true|false}")
		return
	}
	set := workspace.DisplaySet(c.Param("set"))
	st, err := h.ws.SetDisplayFlag(c.Request.Context(), set, flag, *req.Value)
	h.respondState(c, http.StatusOK, st, err)
}

// preview renders HTML by default and plain text for format=text.
func (h *handlers) preview(c *gin.Context) {
	view, err := h.ws.Preview(c.Request.Context(), domain.TemplateID(c.Query("template")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if strings.EqualFold(c.Query("format"), "text") {
		c.String(http.StatusOK, render.RenderText(view))
		return
	}
	page, err := render.RenderHTML(view)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
