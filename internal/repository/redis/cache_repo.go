package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const opTimeout = 2 * time.Second

// CacheRepo реализует repository.CacheRepository поверх redis.UniversalClient
type CacheRepo struct {
	client redis.UniversalClient
	prefix string
}

// NewCacheRepo создает новый репозиторий кеша; все ключи получают префикс prefix
func NewCacheRepo(client redis.UniversalClient, prefix string) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for CacheRepo")
	}
	return &CacheRepo{client: client, prefix: prefix}, nil
}

func (r *CacheRepo) key(k string) string {
	return r.prefix + k
}

// Set сохраняет значение в кеше
func (r *CacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return r.client.Set(ctx, r.key(key), value, expiration).Err()
}

// Get получает значение из кеша; отсутствие ключа возвращается как ErrNotFound
func (r *CacheRepo) Get(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	return val, nil
}

// Delete удаляет значение из кеша
func (r *CacheRepo) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return r.client.Del(ctx, r.key(key)).Err()
}

// SetJSON сохраняет структуру JSON в кеше
func (r *CacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Set(key, data, expiration)
}

// GetJSON получает структуру JSON из кеша
func (r *CacheRepo) GetJSON(key string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}
