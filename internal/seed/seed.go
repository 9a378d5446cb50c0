// Package seed loads demo data for manual testing.
package seed

import (
	"context"
	"errors"
	"fmt"

	"invoicedesk/internal/domain"
	authsvc "invoicedesk/internal/service/auth"
	clientsvc "invoicedesk/internal/service/client"
)

type clientDirectory interface {
	List(ctx context.Context) ([]domain.Client, error)
	Add(ctx context.Context, in clientsvc.Input) (domain.Client, error)
}

type accounts interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (domain.AuthUser, error)
	Logout(ctx context.Context) error
}

// DemoAccount is the account Apply creates.
var DemoAccount = authsvc.SignupInput{
	Name:     "Demo Trader",
	Email:    "demo@invoicedesk.local",
	Password: "demo",
}

var demoClients = []clientsvc.Input{
	{
		Name:    "Northwind Traders",
		TaxID:   "12 345 678 901",
		Address: "10 Harbour St\nSydney NSW 2000",
		Phone:   "02 9000 0000",
		Email:   "accounts@northwind.test",
	},
	{
		Name:    "Blue Gum Studio",
		Address: "4 Wattle Lane\nHobart TAS 7000",
	},
}

// Apply creates the demo account and clients. It is idempotent: an existing
// account is kept and clients are only added to an empty directory.
func Apply(ctx context.Context, users accounts, clients clientDirectory) error {
	if _, err := users.Signup(ctx, DemoAccount); err != nil && !errors.Is(err, domain.ErrDuplicateAccount) {
		return fmt.Errorf("seed account: %w", err)
	}
	// Signup opens a session; the demo data should not leave one behind.
	if err := users.Logout(ctx); err != nil {
		return fmt.Errorf("seed logout: %w", err)
	}

	existing, err := clients.List(ctx)
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, c := range demoClients {
		if _, err := clients.Add(ctx, c); err != nil {
			return fmt.Errorf("seed client %s: %w", c.Name, err)
		}
	}
	return nil
}
