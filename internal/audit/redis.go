package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/go-redis/redis/v8"
)

// appendCappedScript pushes the new entry to the head of the tenant list and
// pops from the tail while either bound is exceeded. Redis runs scripts
// atomically, so concurrent writers never see or leave an over-full list.
var appendCappedScript = redis.NewScript(`
redis.call('LPUSH', KEYS[1], ARGV[1])
local total = redis.call('INCRBY', KEYS[2], ARGV[2])
local maxEntries = tonumber(ARGV[3])
local maxBytes = tonumber(ARGV[4])
while redis.call('LLEN', KEYS[1]) > 1 and (redis.call('LLEN', KEYS[1]) > maxEntries or total > maxBytes) do
  local old = redis.call('RPOP', KEYS[1])
  total = redis.call('DECRBY', KEYS[2], string.len(old))
end
return total
`)

// RedisStore keeps each tenant's entries in a list plus a byte counter.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps client. Keys are namespaced under prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "activity"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) keys(tenantID string) (list, size string) {
	return fmt.Sprintf("%s:%s:entries", s.prefix, tenantID), fmt.Sprintf("%s:%s:bytes", s.prefix, tenantID)
}

// AppendCapped implements Store. The stored value is the entry's JSON
// encoding, whose length is the size charged against the budget.
func (s *RedisStore) AppendCapped(ctx context.Context, entry entities.ActivityLogEntry, _ int, limits Limits) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	list, size := s.keys(entry.TenantID)
	if err := appendCappedScript.Run(ctx, s.client, []string{list, size}, raw, len(raw), limits.MaxEntries, limits.MaxBytes).Err(); err != nil {
		return fmt.Errorf("redis append: %w", err)
	}
	return nil
}

// RecentActivity implements Store.
func (s *RedisStore) RecentActivity(ctx context.Context, tenantID string, limit int) ([]entities.ActivityLogEntry, error) {
	list, _ := s.keys(tenantID)
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	raws, err := s.client.LRange(ctx, list, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("redis range: %w", err)
	}

	out := make([]entities.ActivityLogEntry, 0, len(raws))
	for _, raw := range raws {
		var e entities.ActivityLogEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
