package session

import (
	"context"
	"log"
	"time"

	"github.com/example/flowershop/internal/auth"
	"github.com/example/flowershop/internal/infrastructure/storage"
)

// TokenStore keeps the bearer token in storage and hands it to the HTTP
// client on every request. It drops tokens it can tell are expired; a
// token it cannot parse is treated as opaque and sent as-is.
type TokenStore struct {
	storage storage.Storage
}

func NewTokenStore(st storage.Storage) *TokenStore {
	return &TokenStore{storage: st}
}

func (ts *TokenStore) Token(ctx context.Context) string {
	var token string
	found, err := ts.storage.Get(ctx, storage.KeyToken, &token)
	if err != nil {
		log.Printf("[Session] Failed to read token: %v", err)
		return ""
	}
	if !found || token == "" {
		return ""
	}

	if expiresAt, err := auth.TokenExpiresAt(token); err == nil && !expiresAt.IsZero() && expiresAt.Before(time.Now()) {
		log.Printf("[Session] Cached token expired at %s, dropping it", expiresAt.Format(time.RFC3339))
		ts.Clear(ctx)
		return ""
	}
	return token
}

// Clear forgets the token and the cached profile that came with it.
func (ts *TokenStore) Clear(ctx context.Context) {
	if err := ts.storage.Remove(ctx, storage.KeyToken); err != nil {
		log.Printf("[Session] Failed to remove token: %v", err)
	}
	if err := ts.storage.Remove(ctx, storage.KeyUserInfo); err != nil {
		log.Printf("[Session] Failed to remove cached profile: %v", err)
	}
}

func (ts *TokenStore) save(ctx context.Context, token string) error {
	return ts.storage.Set(ctx, storage.KeyToken, token)
}
