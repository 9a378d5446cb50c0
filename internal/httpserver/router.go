package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoicedesk/internal/document"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/gate"
	"invoicedesk/internal/logger"
	"invoicedesk/internal/metrics"
	"invoicedesk/internal/render"
	authsvc "invoicedesk/internal/service/auth"
	clientsvc "invoicedesk/internal/service/client"
	"invoicedesk/internal/service/workspace"
)

// WorkspaceService is the application surface the handlers drive.
type WorkspaceService interface {
	Current(ctx context.Context) (workspace.State, error)
	Reset(ctx context.Context) (workspace.State, error)
	SetFields(ctx context.Context, fields map[document.Field]string) (workspace.State, error)
	SetIssuerFields(ctx context.Context, fields map[document.IssuerField]string) (workspace.State, error)
	SetPaymentFields(ctx context.Context, fields map[document.PaymentField]string) (workspace.State, error)
	AddItem(ctx context.Context) (workspace.State, int, error)
	SetItem(ctx context.Context, index int, patch document.ItemPatch) (workspace.State, error)
	RemoveItem(ctx context.Context, index int) (workspace.State, error)
	SelectClient(ctx context.Context, id string) (workspace.State, error)
	SetDisplayFlag(ctx context.Context, set workspace.DisplaySet, flag document.Flag, value bool) (workspace.State, error)

	ListClients(ctx context.Context) ([]domain.Client, error)
	SaveClient(ctx context.Context, id string, in clientsvc.Input) (domain.Client, error)
	DeleteClient(ctx context.Context, id string) error

	Signup(ctx context.Context, in authsvc.SignupInput) (domain.AuthUser, error)
	Login(ctx context.Context, email, password string) (domain.AuthUser, error)
	Logout(ctx context.Context) error

	Preview(ctx context.Context, template domain.TemplateID) (render.View, error)
	BeginExport(ctx context.Context) (gate.Ticket, error)
	BeginSend(ctx context.Context) (gate.Ticket, error)
	ActionResult(token string) (gate.Result, bool)
}

// Sessions issues and checks bearer tokens.
type Sessions interface {
	Issue(u domain.AuthUser) (string, error)
	Verify(token string) (domain.AuthUser, error)
}

// Deps groups the collaborators the router needs.
type Deps struct {
	Workspace   WorkspaceService
	Sessions    Sessions
	Metrics     *metrics.Metrics
	Ready       func(context.Context) error
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(log *zap.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Workspace == nil {
		return nil, errors.New("workspace service is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.GinMiddleware())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Disposition", logger.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ready))

	h := &handlers{ws: deps.Workspace, sessions: deps.Sessions, log: log}

	auth := router.Group("/auth")
	auth.POST("/signup", h.signup)
	auth.POST("/login", h.login)
	authed := auth.Group("", sessionMiddleware(deps.Sessions))
	authed.POST("/logout", h.logout)
	authed.GET("/me", h.me)

	clients := router.Group("/clients")
	clients.GET("", h.listClients)
	clients.POST("", h.createClient)
	clients.PUT("/:id", h.updateClient)
	clients.DELETE("/:id", h.deleteClient)

	inv := router.Group("/invoice")
	inv.GET("", h.getInvoice)
	inv.POST("/reset", h.resetInvoice)
	inv.PATCH("", h.patchInvoice)
	inv.PATCH("/issuer", h.patchIssuer)
	inv.PATCH("/payment", h.patchPayment)
	inv.POST("/items", h.addItem)
	inv.PATCH("/items/:index", h.patchItem)
	inv.DELETE("/items/:index", h.deleteItem)
	inv.PUT("/client", h.selectClient)
	inv.PUT("/display/:set/:flag", h.setDisplayFlag)
	inv.GET("/preview", h.preview)
	inv.POST("/export", h.beginExport)
	inv.POST("/send", h.beginSend)

	router.GET("/actions/:token", h.actionResult)

	return router, nil
}

type handlers struct {
	ws       WorkspaceService
	sessions Sessions
	log      *zap.Logger
}
