package kv

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"invoicedesk/internal/domain"
)

func TestRecords_EmptyStoreDefaults(t *testing.T) {
	ctx := context.Background()
	r := NewRecords(NewMemory(), nil)

	clients, err := r.Clients(ctx)
	if err != nil || clients == nil || len(clients) != 0 {
		t.Fatalf("expected empty clients, got %v %v", clients, err)
	}
	users, err := r.Users(ctx)
	if err != nil || users == nil || len(users) != 0 {
		t.Fatalf("expected empty users, got %v %v", users, err)
	}
	u, err := r.AuthUser(ctx)
	if err != nil || u != nil {
		t.Fatalf("expected no auth user, got %v %v", u, err)
	}
}

func TestRecords_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	r := NewRecords(store, nil)

	clients := []domain.Client{{ID: "c1", Name: "Acme", TaxID: "1"}, {ID: "c2", Name: "Globex"}}
	if err := r.SaveClients(ctx, clients); err != nil {
		t.Fatalf("save clients: %v", err)
	}
	users := []domain.Credential{{Name: "Ann", Email: "a@x.io", Password: "hash"}}
	if err := r.SaveUsers(ctx, users); err != nil {
		t.Fatalf("save users: %v", err)
	}
	if err := r.SaveAuthUser(ctx, &domain.AuthUser{Name: "Ann", Email: "a@x.io"}); err != nil {
		t.Fatalf("save auth user: %v", err)
	}

	gotClients, _ := r.Clients(ctx)
	if len(gotClients) != 2 || gotClients[0] != clients[0] || gotClients[1] != clients[1] {
		t.Fatalf("unexpected clients %+v", gotClients)
	}
	gotUsers, _ := r.Users(ctx)
	if len(gotUsers) != 1 || gotUsers[0] != users[0] {
		t.Fatalf("unexpected users %+v", gotUsers)
	}
	u, _ := r.AuthUser(ctx)
	if u == nil || u.Email != "a@x.io" {
		t.Fatalf("unexpected auth user %+v", u)
	}

	raw, _ := store.Get(ctx, KeyClients)
	if string(raw) != `[{"id":"c1","name":"Acme","abn":"1","address":"","phone":"","email":""},{"id":"c2","name":"Globex","abn":"","address":"","phone":"","email":""}]` {
		t.Fatalf("unexpected persisted shape %s", raw)
	}

	if err := r.SaveAuthUser(ctx, nil); err != nil {
		t.Fatalf("clear auth user: %v", err)
	}
	if u, _ := r.AuthUser(ctx); u != nil {
		t.Fatalf("auth user should be cleared, got %+v", u)
	}
}

func TestRecords_CorruptValueIsLogged(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.ErrorLevel)
	store := NewMemory()
	_ = store.Set(ctx, KeyClients, []byte("not json"))

	r := NewRecords(store, zap.New(core))
	if _, err := r.Clients(ctx); err == nil {
		t.Fatalf("expected decode error")
	}
	if logs.FilterField(zap.String("key", KeyClients)).Len() != 1 {
		t.Fatalf("expected one error log, got %d", logs.Len())
	}
}
