package reservation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"fieldops/models"
)

// HoldCache mirrors live holds into Redis for the availability read path.
// Keys carry the reservation TTL via EXPIREAT, so expiry needs no sweeper.
// The durable reservation row stays the source of truth.
type HoldCache struct {
	client *redis.Client
}

func NewHoldCache(client *redis.Client) *HoldCache {
	return &HoldCache{client: client}
}

func holdKey(businessID, date, token string) string {
	return fmt.Sprintf("slot_reservation:%s:%s:%s", businessID, date, token)
}

func (c *HoldCache) Put(ctx context.Context, res *models.SlotReservation) error {
	key := holdKey(res.BusinessID, res.SlotDate, res.Token)
	err := c.client.HSet(ctx, key, map[string]interface{}{
		"customerId": res.CustomerID,
		"start":      res.SlotStart,
		"end":        res.SlotEnd,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to cache hold: %w", err)
	}
	if err := c.client.ExpireAt(ctx, key, res.ExpiresAt).Err(); err != nil {
		return fmt.Errorf("failed to set hold expiry: %w", err)
	}
	return nil
}

func (c *HoldCache) Delete(ctx context.Context, businessID, date, token string) error {
	return c.client.Del(ctx, holdKey(businessID, date, token)).Err()
}

// List scans the business/date keyspace and decodes each hold's window.
func (c *HoldCache) List(ctx context.Context, businessID, date string) ([]models.SlotReservation, error) {
	pattern := holdKey(businessID, date, "*")

	var holds []models.SlotReservation
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		data, err := c.client.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read cached hold: %w", err)
		}
		if len(data) == 0 {
			continue // expired between SCAN and HGETALL
		}
		start, err1 := strconv.Atoi(data["start"])
		end, err2 := strconv.Atoi(data["end"])
		if err1 != nil || err2 != nil {
			continue
		}
		holds = append(holds, models.SlotReservation{
			BusinessID: businessID,
			SlotDate:   date,
			CustomerID: data["customerId"],
			SlotStart:  start,
			SlotEnd:    end,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cached holds: %w", err)
	}
	return holds, nil
}

// Healthy reports whether the cache answers a ping within the timeout.
func (c *HoldCache) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err() == nil
}
