package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/ports/outbound"
)

// SessionCache implements outbound.SessionStore on Redis. Snapshots are
// opaque bytes; the pipeline owns the encoding.
type SessionCache struct {
	client *Client
	logger *zap.Logger
}

// NewSessionCache creates the session store.
func NewSessionCache(client *Client, logger *zap.Logger) outbound.SessionStore {
	return &SessionCache{client: client, logger: logger.Named("session-cache")}
}

// SaveSession overwrites the user's snapshot. Failures are logged and
// absorbed; losing a snapshot only loses replay, never the session itself.
func (c *SessionCache) SaveSession(ctx context.Context, userID uuid.UUID, snapshot []byte, ttl time.Duration) {
	if c.client.rdb == nil {
		return
	}
	if err := c.client.rdb.Set(ctx, sessionKey(userID), snapshot, ttl).Err(); err != nil {
		c.logger.Warn("Session save failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// LoadSession fetches the user's last committed snapshot.
func (c *SessionCache) LoadSession(ctx context.Context, userID uuid.UUID) ([]byte, bool) {
	if c.client.rdb == nil {
		return nil, false
	}
	data, err := c.client.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// DeleteSession discards the user's snapshot.
func (c *SessionCache) DeleteSession(ctx context.Context, userID uuid.UUID) {
	if c.client.rdb == nil {
		return
	}
	if err := c.client.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		c.logger.Warn("Session delete failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func sessionKey(userID uuid.UUID) string {
	return keyPrefix + ":session:" + userID.String()
}
