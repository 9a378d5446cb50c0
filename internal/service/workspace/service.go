// Package workspace owns the single working invoice and coordinates it with
// the client directory, the session and the gated export and send actions.
package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"invoicedesk/internal/calc"
	"invoicedesk/internal/document"
	"invoicedesk/internal/domain"
	"invoicedesk/internal/export"
	"invoicedesk/internal/gate"
	"invoicedesk/internal/render"
	authsvc "invoicedesk/internal/service/auth"
	clientsvc "invoicedesk/internal/service/client"
)

// Action kinds handed to the gate.
const (
	ActionExport = "export"
	ActionSend   = "send"
)

type clientDirectory interface {
	List(ctx context.Context) ([]domain.Client, error)
	Add(ctx context.Context, in clientsvc.Input) (domain.Client, error)
	Update(ctx context.Context, id string, in clientsvc.Input) (domain.Client, error)
	Delete(ctx context.Context, id string) error
	Select(ctx context.Context, id string) (domain.Client, bool, error)
}

type accounts interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (domain.AuthUser, error)
	Login(ctx context.Context, email, password string) (domain.AuthUser, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*domain.AuthUser, error)
}

type gatekeeper interface {
	Begin(kind string, fn gate.Action) gate.Ticket
	Result(token string) (gate.Result, bool)
}

// State is the working invoice with its derived totals.
type State struct {
	Invoice domain.Invoice `json:"invoice"`
	Totals  calc.Totals    `json:"totals"`
}

// Deps wires a Service.
type Deps struct {
	Clients clientDirectory
	Auth    accounts
	Gate    gatekeeper
	Node    *snowflake.Node
	Logger  *zap.Logger
	Now     func() time.Time
}

// Service serialises every operation on the working invoice.
type Service struct {
	clients clientDirectory
	auth    accounts
	gate    gatekeeper
	node    *snowflake.Node
	logger  *zap.Logger
	now     func() time.Time

	mu  chan struct{}
	doc *document.Document
}

// New builds the service and seeds the working invoice, using the active
// session identity for the issuer when there is one.
func New(ctx context.Context, deps Deps) (*Service, error) {
	s := &Service{
		clients: deps.Clients,
		auth:    deps.Auth,
		gate:    deps.Gate,
		node:    deps.Node,
		logger:  deps.Logger,
		now:     deps.Now,
		mu:      make(chan struct{}, 1),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.node == nil {
		node, err := snowflake.NewNode(1)
		if err != nil {
			return nil, fmt.Errorf("snowflake node: %w", err)
		}
		s.node = node
	}
	user, err := s.auth.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s.doc = s.newDocument(user)
	return s, nil
}

// lock acquires the workspace or gives up when ctx ends.
func (s *Service) lock(ctx context.Context) error {
	select {
	case s.mu <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) unlock() { <-s.mu }

func (s *Service) newDocument(user *domain.AuthUser) *document.Document {
	return document.New(document.Seed{
		ID:     "INV-" + s.node.Generate().String(),
		Now:    s.now(),
		Issuer: user,
	})
}

func (s *Service) state() State {
	return State{Invoice: s.doc.Snapshot(), Totals: s.doc.Totals()}
}

// do runs fn against the document under the lock and returns the new state.
func (s *Service) do(ctx context.Context, fn func(d *document.Document) error) (State, error) {
	if err := s.lock(ctx); err != nil {
		return State{}, err
	}
	defer s.unlock()
	if err := fn(s.doc); err != nil {
		return State{}, err
	}
	return s.state(), nil
}

// apply runs fn on a copy and swaps it in only if fn succeeds, so a batch of
// field updates is all or nothing.
func (s *Service) apply(ctx context.Context, fn func(d *document.Document) error) (State, error) {
	return s.do(ctx, func(d *document.Document) error {
		draft := document.FromInvoice(d.Snapshot())
		if err := fn(draft); err != nil {
			return err
		}
		s.doc = draft
		return nil
	})
}

func (s *Service) Current(ctx context.Context) (State, error) {
	return s.do(ctx, func(*document.Document) error { return nil })
}

// Reset replaces the working invoice with a freshly seeded one.
func (s *Service) Reset(ctx context.Context) (State, error) {
	if err := s.lock(ctx); err != nil {
		return State{}, err
	}
	defer s.unlock()
	user, err := s.auth.Current(ctx)
	if err != nil {
		return State{}, err
	}
	s.doc = s.newDocument(user)
	s.logger.Info("working invoice reset", zap.String("invoice_id", s.doc.Snapshot().ID))
	return s.state(), nil
}

func (s *Service) SetFields(ctx context.Context, fields map[document.Field]string) (State, error) {
	return s.apply(ctx, func(d *document.Document) error {
		for f, v := range fields {
			if err := d.SetField(f, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) SetIssuerFields(ctx context.Context, fields map[document.IssuerField]string) (State, error) {
	return s.apply(ctx, func(d *document.Document) error {
		for f, v := range fields {
			if err := d.SetIssuerField(f, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) SetPaymentFields(ctx context.Context, fields map[document.PaymentField]string) (State, error) {
	return s.apply(ctx, func(d *document.Document) error {
		for f, v := range fields {
			if err := d.SetPaymentField(f, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddItem appends a default row and reports its index.
func (s *Service) AddItem(ctx context.Context) (State, int, error) {
	var idx int
	st, err := s.do(ctx, func(d *document.Document) error {
		idx = d.AddItem()
		return nil
	})
	return st, idx, err
}

func (s *Service) SetItem(ctx context.Context, index int, patch document.ItemPatch) (State, error) {
	return s.do(ctx, func(d *document.Document) error { return d.SetItem(index, patch) })
}

func (s *Service) RemoveItem(ctx context.Context, index int) (State, error) {
	return s.do(ctx, func(d *document.Document) error { return d.RemoveItem(index) })
}

// SelectClient embeds a copy of the directory entry, or clears the client
// when id is empty or unknown.
func (s *Service) SelectClient(ctx context.Context, id string) (State, error) {
	return s.do(ctx, func(d *document.Document) error {
		return d.SelectClient(ctx, s.clients, id)
	})
}

// DisplaySet names one of the two visibility flag sets.
type DisplaySet string

const (
	DisplayBillTo DisplaySet = "billTo"
	DisplayIssuer DisplaySet = "issuer"
)

func (s *Service) SetDisplayFlag(ctx context.Context, set DisplaySet, flag document.Flag, value bool) (State, error) {
	return s.do(ctx, func(d *document.Document) error {
		switch set {
		case DisplayBillTo:
			return d.SetBillToDisplayFlag(flag, value)
		case DisplayIssuer:
			return d.SetIssuerDisplayFlag(flag, value)
		}
		return fmt.Errorf("%w: display set %q", domain.ErrUnknownField, set)
	})
}

func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()
	return s.clients.List(ctx)
}

// SaveClient adds a client (empty id) or updates one, then selects it into
// the working invoice.
func (s *Service) SaveClient(ctx context.Context, id string, in clientsvc.Input) (domain.Client, error) {
	if err := s.lock(ctx); err != nil {
		return domain.Client{}, err
	}
	defer s.unlock()

	var (
		c   domain.Client
		err error
	)
	if id == "" {
		c, err = s.clients.Add(ctx, in)
	} else {
		c, err = s.clients.Update(ctx, id, in)
	}
	if err != nil {
		return domain.Client{}, err
	}
	s.doc.EmbedClient(c)
	return c, nil
}

// DeleteClient removes a directory entry and drops it from the working
// invoice if it was the selected client.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.unlock()
	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	if s.doc.ClearClient(id) {
		s.logger.Info("selected client deleted", zap.String("client_id", id))
	}
	return nil
}

func (s *Service) Signup(ctx context.Context, in authsvc.SignupInput) (domain.AuthUser, error) {
	return s.identify(ctx, func() (domain.AuthUser, error) { return s.auth.Signup(ctx, in) })
}

func (s *Service) Login(ctx context.Context, email, password string) (domain.AuthUser, error) {
	return s.identify(ctx, func() (domain.AuthUser, error) { return s.auth.Login(ctx, email, password) })
}

// identify runs a signup or login and copies the identity into the issuer.
func (s *Service) identify(ctx context.Context, fn func() (domain.AuthUser, error)) (domain.AuthUser, error) {
	if err := s.lock(ctx); err != nil {
		return domain.AuthUser{}, err
	}
	defer s.unlock()
	u, err := fn()
	if err != nil {
		return domain.AuthUser{}, err
	}
	s.doc.ApplyIdentity(u)
	return u, nil
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.unlock()
	return s.auth.Logout(ctx)
}

func (s *Service) CurrentUser(ctx context.Context) (*domain.AuthUser, error) {
	return s.auth.Current(ctx)
}

// Preview renders the working invoice. A non-empty template overrides the
// selected one for this call only.
func (s *Service) Preview(ctx context.Context, template domain.TemplateID) (render.View, error) {
	st, err := s.Current(ctx)
	if err != nil {
		return render.View{}, err
	}
	if template == "" {
		template = st.Invoice.Template
	}
	if !template.Valid() {
		return render.View{}, fmt.Errorf("%w: %q", domain.ErrInvalidTemplate, template)
	}
	return render.Select(template).Build(st.Invoice, st.Totals), nil
}

// BeginExport validates the working invoice and schedules the PDF behind the
// gate. The PDF is built from the snapshot taken now.
func (s *Service) BeginExport(ctx context.Context) (gate.Ticket, error) {
	st, err := s.Current(ctx)
	if err != nil {
		return gate.Ticket{}, err
	}
	if err := document.Validate(st.Invoice); err != nil {
		return gate.Ticket{}, err
	}
	ticket := s.gate.Begin(ActionExport, func() (any, error) {
		return export.RenderPDF(st.Invoice, render.Build(st.Invoice, st.Totals))
	})
	s.logger.Info("export requested", zap.String("invoice_id", st.Invoice.ID), zap.String("token", ticket.Token))
	return ticket, nil
}

// BeginSend validates the working invoice, checks the recipient and
// schedules the mailto composition behind the gate.
func (s *Service) BeginSend(ctx context.Context) (gate.Ticket, error) {
	st, err := s.Current(ctx)
	if err != nil {
		return gate.Ticket{}, err
	}
	if err := document.Validate(st.Invoice); err != nil {
		return gate.Ticket{}, err
	}
	mail, err := export.MailTo(st.Invoice)
	if err != nil {
		return gate.Ticket{}, err
	}
	ticket := s.gate.Begin(ActionSend, func() (any, error) { return mail, nil })
	s.logger.Info("send requested", zap.String("invoice_id", st.Invoice.ID), zap.String("token", ticket.Token))
	return ticket, nil
}

// ActionResult reports the state of a gated action.
func (s *Service) ActionResult(token string) (gate.Result, bool) {
	return s.gate.Result(token)
}
