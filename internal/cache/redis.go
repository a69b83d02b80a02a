package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/roundtrip/config"
	"github.com/Domenick1991/roundtrip/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps completed searches in Redis so results survive restarts
// and can be bounded with a TTL.
type RedisStore struct {
	client redis.Cmdable
	close  func() error
	ttl    time.Duration
}

func NewRedisStore(cfg config.RedisConfig, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	return &RedisStore{
		client: client,
		close:  client.Close,
		ttl:    ttl,
	}
}

func (s *RedisStore) Save(ctx context.Context, search *domain.Search) error {
	payload, err := json.Marshal(search)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, searchKey(search.ID), payload, s.ttl).Err()
}

// Get returns nil, nil for unknown or expired ids.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Search, error) {
	data, err := s.client.Get(ctx, searchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var search domain.Search
	if err := json.Unmarshal(data, &search); err != nil {
		return nil, err
	}
	return &search, nil
}

func (s *RedisStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func searchKey(id string) string {
	return "search:" + id
}
