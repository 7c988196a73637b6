package sessionstore

import (
	"catering-quote/common/constant"
	"catering-quote/core/order"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// RedisStore keeps each session as one JSON value. Every Save pushes the
// expiry forward, so idle sessions disappear after TTL.
type RedisStore struct {
	Cache *redis.Client
	TTL   time.Duration
}

func (r RedisStore) ttl() time.Duration {
	if r.TTL <= 0 {
		return constant.SessionDefaultTTL
	}
	return r.TTL
}

func (r RedisStore) Get(ctx context.Context, id string) (*order.Session, error) {
	raw, err := r.Cache.Get(ctx, fmt.Sprintf(constant.SessionKey, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return decode(raw)
}

func (r RedisStore) Save(ctx context.Context, s *order.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := r.Cache.Set(ctx, fmt.Sprintf(constant.SessionKey, s.ID), raw, r.ttl()).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}

	return nil
}

func (r RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.Cache.Del(ctx, fmt.Sprintf(constant.SessionKey, id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return nil
}

func decode(raw []byte) (*order.Session, error) {
	var s order.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Selection == nil {
		s.Selection = make(map[string]int)
	}
	if s.Filters == nil {
		s.Filters = make(map[string][]string)
	}
	return &s, nil
}
