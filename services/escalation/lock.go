package escalation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// runLockTTL caps how long a crashed run can hold a business locked.
const runLockTTL = 10 * time.Minute

// RunLock serializes escalation runs per business: overlapping ticks for the
// same business would double-escalate.
type RunLock struct {
	client *redis.Client
}

func NewRunLock(client *redis.Client) *RunLock {
	return &RunLock{client: client}
}

// Acquire takes the per-business lock. The release function is best-effort;
// the TTL is the backstop.
func (l *RunLock) Acquire(ctx context.Context, businessID string) (bool, func(), error) {
	key := fmt.Sprintf("escalation_lock:%s", businessID)
	ok, err := l.client.SetNX(ctx, key, time.Now().Unix(), runLockTTL).Result()
	if err != nil {
		return false, nil, fmt.Errorf("failed to acquire escalation lock: %w", err)
	}
	if !ok {
		return false, nil, nil
	}
	release := func() {
		_ = l.client.Del(context.Background(), key).Err()
	}
	return true, release, nil
}
