package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps one active token per user. Login overwrites the entry,
// so an old token stops validating as soon as a new one is issued.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(userID int) string {
	return fmt.Sprintf("session:%d", userID)
}

// Save stores the user's current token with the session TTL
func (s *SessionStore) Save(ctx context.Context, userID int, token string) error {
	return s.client.Set(ctx, sessionKey(userID), token, s.ttl).Err()
}

// Get returns the user's current token, empty when no session exists
func (s *SessionStore) Get(ctx context.Context, userID int) (string, error) {
	token, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Delete removes the user's session
func (s *SessionStore) Delete(ctx context.Context, userID int) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}
