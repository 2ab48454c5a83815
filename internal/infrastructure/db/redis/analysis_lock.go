package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 10 * time.Minute

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AnalysisLock keeps at most one worker scoring a given call, across replicas.
// Key format: analysis:lock:<call_id>, value: the holder's token.
type AnalysisLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalysisLock wraps client. The TTL bounds how long a crashed worker can
// keep a call locked.
func NewAnalysisLock(client *redis.Client, ttl time.Duration) *AnalysisLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &AnalysisLock{client: client, ttl: ttl}
}

// Acquire reports false when the lock is already held. The token must be
// handed back to Release.
func (l *AnalysisLock) Acquire(ctx context.Context, callID string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(callID), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("analysis lock acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release is a no-op when the lock expired and now belongs to someone else.
func (l *AnalysisLock) Release(ctx context.Context, callID, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key(callID)}, token).Err(); err != nil {
		return fmt.Errorf("analysis lock release: %w", err)
	}
	return nil
}

func (l *AnalysisLock) key(callID string) string {
	return "analysis:lock:" + callID
}
