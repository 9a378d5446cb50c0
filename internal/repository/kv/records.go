package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"invoicedesk/internal/domain"
)

// Records gives typed access to the JSON documents kept in a Store.
type Records struct {
	store  Store
	logger *zap.Logger
}

func NewRecords(store Store, logger *zap.Logger) *Records {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Records{store: store, logger: logger}
}

func (r *Records) Clients(ctx context.Context) ([]domain.Client, error) {
	var out []domain.Client
	if err := r.load(ctx, KeyClients, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Client{}
	}
	return out, nil
}

func (r *Records) SaveClients(ctx context.Context, clients []domain.Client) error {
	if clients == nil {
		clients = []domain.Client{}
	}
	return r.save(ctx, KeyClients, clients)
}

func (r *Records) Users(ctx context.Context) ([]domain.Credential, error) {
	var out []domain.Credential
	if err := r.load(ctx, KeyUsers, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Credential{}
	}
	return out, nil
}

func (r *Records) SaveUsers(ctx context.Context, users []domain.Credential) error {
	if users == nil {
		users = []domain.Credential{}
	}
	return r.save(ctx, KeyUsers, users)
}

// AuthUser returns the active session identity, or nil when signed out.
func (r *Records) AuthUser(ctx context.Context) (*domain.AuthUser, error) {
	var u *domain.AuthUser
	if err := r.load(ctx, KeyAuthUser, &u); err != nil {
		return nil, err
	}
	return u, nil
}

// SaveAuthUser stores u, or clears the record when u is nil.
func (r *Records) SaveAuthUser(ctx context.Context, u *domain.AuthUser) error {
	if u == nil {
		if err := r.store.Clear(ctx, KeyAuthUser); err != nil {
			return fmt.Errorf("clear %s: %w", KeyAuthUser, err)
		}
		return nil
	}
	return r.save(ctx, KeyAuthUser, u)
}

// load leaves dst untouched when key is absent.
func (r *Records) load(ctx context.Context, key string, dst any) error {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		r.logger.Error("kv records: decode", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (r *Records) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
