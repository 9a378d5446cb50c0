// Package client manages the bounded directory of reusable billing clients.
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"invoicedesk/internal/domain"
)

// DefaultLimit is the free-tier cap on saved clients.
const DefaultLimit = 3

type store interface {
	Clients(ctx context.Context) ([]domain.Client, error)
	SaveClients(ctx context.Context, clients []domain.Client) error
}

// Input carries the editable fields of a client.
type Input struct {
	Name    string `json:"name"`
	TaxID   string `json:"abn"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (in Input) toClient(id string) domain.Client {
	return domain.Client{
		ID:      id,
		Name:    strings.TrimSpace(in.Name),
		TaxID:   strings.TrimSpace(in.TaxID),
		Address: in.Address,
		Phone:   strings.TrimSpace(in.Phone),
		Email:   strings.TrimSpace(in.Email),
	}
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &domain.ValidationError{Problems: []string{"Client name is required."}}
	}
	return nil
}

// Directory is the client address book. Entries keep insertion order.
type Directory struct {
	store store
	limit int
	newID func() string
}

// New builds a Directory. A non-positive limit falls back to DefaultLimit.
func New(store store, limit int) *Directory {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Directory{store: store, limit: limit, newID: uuid.NewString}
}

func (d *Directory) Limit() int { return d.limit }

func (d *Directory) List(ctx context.Context) ([]domain.Client, error) {
	return d.store.Clients(ctx)
}

// Add appends a new client with a fresh id. It fails with
// domain.ErrQuotaExceeded once the directory holds limit entries.
func (d *Directory) Add(ctx context.Context, in Input) (domain.Client, error) {
	if err := in.validate(); err != nil {
		return domain.Client{}, err
	}
	clients, err := d.store.Clients(ctx)
	if err != nil {
		return domain.Client{}, err
	}
	if len(clients) >= d.limit {
		return domain.Client{}, fmt.Errorf("%w: %d of %d", domain.ErrQuotaExceeded, len(clients), d.limit)
	}
	c := in.toClient(d.newID())
	if err := d.store.SaveClients(ctx, append(clients, c)); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

// Update replaces the entry with the same id, keeping its position.
func (d *Directory) Update(ctx context.Context, id string, in Input) (domain.Client, error) {
	if err := in.validate(); err != nil {
		return domain.Client{}, err
	}
	clients, err := d.store.Clients(ctx)
	if err != nil {
		return domain.Client{}, err
	}
	idx := indexOf(clients, id)
	if idx < 0 {
		return domain.Client{}, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	c := in.toClient(id)
	clients[idx] = c
	if err := d.store.SaveClients(ctx, clients); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

// Delete removes the entry. Callers confirm with the user beforehand.
func (d *Directory) Delete(ctx context.Context, id string) error {
	clients, err := d.store.Clients(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(clients, id)
	if idx < 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	clients = append(clients[:idx], clients[idx+1:]...)
	return d.store.SaveClients(ctx, clients)
}

// Select looks an entry up without changing anything.
func (d *Directory) Select(ctx context.Context, id string) (domain.Client, bool, error) {
	clients, err := d.store.Clients(ctx)
	if err != nil {
		return domain.Client{}, false, err
	}
	if idx := indexOf(clients, id); idx >= 0 {
		return clients[idx], true, nil
	}
	return domain.Client{}, false, nil
}

func indexOf(clients []domain.Client, id string) int {
	for i, c := range clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}
