package position

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"near2door-tracker/internal/domain"
)

const keyPrefix = "near2door:tracking:"

// setIfFresh writes ARGV[2] into field ARGV[1] unless the stored sample is newer
// than ARGV[3] (unix millis). The key TTL is refreshed either way.
var setIfFresh = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if cur then
  local ok, decoded = pcall(cjson.decode, cur)
  if ok and tonumber(decoded.ts) > tonumber(ARGV[3]) then
    redis.call('PEXPIRE', KEYS[1], ARGV[4])
    return 0
  end
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

type redisRecord struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	ObservedAt time.Time `json:"observed_at"`
	TS         int64     `json:"ts"`
}

// RedisStore is a PositionStore shared between service replicas.
// One hash per order holds one field per role.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore; entries of idle orders expire after ttl.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func orderKey(orderID string) string {
	return keyPrefix + orderID
}

// SetSelf records the position of role itself for the order.
func (s *RedisStore) SetSelf(ctx context.Context, orderID string, role domain.Role, pos domain.TrackedPosition) error {
	return s.set(ctx, orderID, role, pos)
}

// SetCounterpart records the position of the party opposite to role.
func (s *RedisStore) SetCounterpart(ctx context.Context, orderID string, role domain.Role, pos domain.TrackedPosition) error {
	return s.set(ctx, orderID, role.Counterpart(), pos)
}

func (s *RedisStore) set(ctx context.Context, orderID string, role domain.Role, pos domain.TrackedPosition) error {
	if err := validate(orderID, role, pos); err != nil {
		return err
	}
	rec := redisRecord{
		Lat:        pos.Coordinate.Lat,
		Lng:        pos.Coordinate.Lng,
		ObservedAt: pos.ObservedAt.UTC(),
		TS:         pos.ObservedAt.UnixMilli(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	err = setIfFresh.Run(ctx, s.client, []string{orderKey(orderID)},
		string(role), data, rec.TS, s.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("redis set position %s/%s: %w", orderID, role, err)
	}
	return nil
}

// Get returns what a viewer with the given role sees for the order.
func (s *RedisStore) Get(ctx context.Context, orderID string, viewer domain.Role) (domain.PositionView, error) {
	fields, err := s.client.HGetAll(ctx, orderKey(orderID)).Result()
	if err != nil {
		return domain.PositionView{}, fmt.Errorf("redis get positions %s: %w", orderID, err)
	}

	var view domain.PositionView
	if raw, ok := fields[string(viewer)]; ok {
		view.Self, err = decodeRecord(raw)
		if err != nil {
			return domain.PositionView{}, err
		}
	}
	if raw, ok := fields[string(viewer.Counterpart())]; ok {
		view.Counterpart, err = decodeRecord(raw)
		if err != nil {
			return domain.PositionView{}, err
		}
	}
	return view, nil
}

// Delete drops every position of the order.
func (s *RedisStore) Delete(ctx context.Context, orderID string) error {
	if err := s.client.Del(ctx, orderKey(orderID)).Err(); err != nil {
		return fmt.Errorf("redis delete positions %s: %w", orderID, err)
	}
	return nil
}

func decodeRecord(raw string) (*domain.TrackedPosition, error) {
	var rec redisRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode position: %w", err)
	}
	return &domain.TrackedPosition{
		Coordinate: domain.Coordinate{Lat: rec.Lat, Lng: rec.Lng},
		ObservedAt: rec.ObservedAt,
	}, nil
}
