package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicedesk/internal/domain"
	authsvc "invoicedesk/internal/service/auth"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  domain.AuthUser `json:"user"`
	Token string          `json:"token"`
}

func (h *handlers) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.ws.Signup(c.Request.Context(), authsvc.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.issue(c, http.StatusCreated, user)
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	user, err := h.ws.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.issue(c, http.StatusOK, user)
}

func (h *handlers) issue(c *gin.Context, status int, user domain.AuthUser) {
	token, err := h.sessions.Issue(user)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, sessionResponse{User: user, Token: token})
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.ws.Logout(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) me(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
