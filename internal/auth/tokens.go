package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

// TokenStore keeps opaque bearer tokens in redis. Tokens are random, carry no
// claims and die either at their TTL or on logout.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

func tokenKey(token string) string {
	return "auth:token:" + token
}

// Issue mints a token bound to the user id.
func (s *TokenStore) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(raw)
	if err := s.client.Set(ctx, tokenKey(token), userID.String(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Resolve maps a presented token back to its user id.
func (s *TokenStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	raw, err := s.client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return uuid.Nil, httpx.ErrUnauthorized
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve token: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, httpx.ErrUnauthorized
	}
	return id, nil
}

// Revoke drops the token. Revoking an unknown token is not an error.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKey(token)).Err()
}
