package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"citadelle-cards-api/internal/cache"
	"citadelle-cards-api/internal/model"
)

const (
	// TokenPrefix is the prefix for all session tokens
	TokenPrefix = "cit_"

	// TokenTTL is the session lifetime
	TokenTTL = 24 * time.Hour

	// tokenKeyPrefix namespaces session keys within the cache
	tokenKeyPrefix = "session:"
)

// SessionService issues and validates opaque session tokens. Tokens live
// in the cache (Redis in production, memory otherwise), so login keeps
// working without a Redis deployment.
type SessionService struct {
	cache cache.Cache
}

// NewSessionService creates a new session service.
func NewSessionService(c cache.Cache) *SessionService {
	return &SessionService{cache: c}
}

// Issue creates a new session token for an authenticated user.
func (s *SessionService) Issue(ctx context.Context, data model.SessionData) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	token := TokenPrefix + hex.EncodeToString(tokenBytes)

	data.CreatedAt = time.Now()
	data.ExpiresAt = data.CreatedAt.Add(TokenTTL)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session data: %w", err)
	}

	if err := s.cache.Set(ctx, tokenKeyPrefix+token, jsonData, TokenTTL); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	log.Printf("[SessionService] Issued session for user=%s (%s), expires=%v",
		data.UserID, data.DisplayName, data.ExpiresAt)

	return token, nil
}

// Validate checks a token and returns its session data.
func (s *SessionService) Validate(ctx context.Context, token string) (*model.SessionData, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	if len(token) < len(TokenPrefix) || token[:len(TokenPrefix)] != TokenPrefix {
		return nil, fmt.Errorf("invalid token format")
	}

	jsonData, err := s.cache.Get(ctx, tokenKeyPrefix+token)
	if err == cache.ErrCacheMiss {
		return nil, fmt.Errorf("session not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data model.SessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session data: %w", err)
	}

	if time.Now().After(data.ExpiresAt) {
		_ = s.cache.Delete(ctx, tokenKeyPrefix+token)
		return nil, fmt.Errorf("session expired")
	}

	return &data, nil
}

// Revoke deletes a session token.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	return s.cache.Delete(ctx, tokenKeyPrefix+token)
}
