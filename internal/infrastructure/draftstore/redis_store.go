package draftstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/product-editor/internal/domain"
	"github.com/jhoicas/product-editor/internal/domain/entity"
	"github.com/jhoicas/product-editor/internal/domain/repository"
)

var _ repository.DraftStore = (*RedisStore)(nil)

// RedisStore borradores compartidos entre réplicas. Update usa WATCH/MULTI: si otro escritor
// modifica la clave entre la lectura y el EXEC se reintenta, y tras maxRetries se devuelve ErrConflict.
type RedisStore struct {
	client     redis.UniversalClient
	prefix     string
	ttl        time.Duration
	maxRetries int
}

func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration, maxRetries int) *RedisStore {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, maxRetries: maxRetries}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Create(ctx context.Context, d *entity.Draft) error {
	raw, err := encode(d)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, s.key(d.ID), raw, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis: crear borrador: %w", err)
	}
	if !ok {
		return domain.ErrDuplicate
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*entity.Draft, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: leer borrador: %w", err)
	}
	return decode(raw)
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(d *entity.Draft) error) (*entity.Draft, error) {
	key := s.key(id)
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		var out *entity.Draft
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return domain.ErrNotFound
			}
			if err != nil {
				return err
			}
			d, err := decode(raw)
			if err != nil {
				return err
			}
			if err := fn(d); err != nil {
				return err
			}
			d.Version++
			next, err := encode(d)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, next, s.ttl)
				return nil
			})
			if err != nil {
				return err
			}
			out = d
			return nil
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: borrador %s modificado concurrentemente", domain.ErrConflict, id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis: borrar borrador: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
