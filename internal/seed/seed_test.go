package seed

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"invoicedesk/internal/repository/kv"
	authsvc "invoicedesk/internal/service/auth"
	clientsvc "invoicedesk/internal/service/client"
)

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	records := kv.NewRecords(kv.NewMemory(), nil)
	users := authsvc.New(records).WithCost(bcrypt.MinCost)
	clients := clientsvc.New(records, clientsvc.DefaultLimit)

	for i := 0; i < 2; i++ {
		if err := Apply(ctx, users, clients); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}

	list, err := clients.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != len(demoClients) {
		t.Fatalf("expected %d clients, got %d", len(demoClients), len(list))
	}
	if cur, _ := users.Current(ctx); cur != nil {
		t.Fatalf("seed left a session open: %+v", cur)
	}
	if _, err := users.Login(ctx, DemoAccount.Email, DemoAccount.Password); err != nil {
		t.Fatalf("demo login: %v", err)
	}
}
