package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests — максимальное количество запросов за Window
	MaxRequests int
	// Window — временное окно для подсчёта запросов
	Window time.Duration
	// KeyPrefix — префикс для ключей в Redis
	KeyPrefix string
}

// LoginRateLimitConfig — лимит для входа администратора (защита от brute-force)
func LoginRateLimitConfig(maxRequests, windowSec int) RateLimitConfig {
	if maxRequests <= 0 {
		maxRequests = 10
	}
	if windowSec <= 0 {
		windowSec = 60
	}
	return RateLimitConfig{
		MaxRequests: maxRequests,
		Window:      time.Duration(windowSec) * time.Second,
		KeyPrefix:   "rl:admin:login",
	}
}

// CounterStore считает запросы в окне. Возвращает номер запроса и оставшееся время окна.
type CounterStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisCounterStore реализует CounterStore через INCR + EXPIRE
type RedisCounterStore struct {
	client redis.UniversalClient
}

// NewRedisCounterStore создает счётчик поверх Redis
func NewRedisCounterStore(client redis.UniversalClient) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// Hit увеличивает счётчик; TTL выставляется на первом запросе окна
func (s *RedisCounterStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			log.Printf("[RateLimiter] Failed to set TTL for key %s: %v", key, err)
		}
	}
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return count, ttl, nil
}

// RateLimiter создаёт middleware для rate limiting
type RateLimiter struct {
	store CounterStore
}

// NewRateLimiter создает новый RateLimiter на Redis
func NewRateLimiter(redisClient redis.UniversalClient) *RateLimiter {
	return &RateLimiter{store: NewRedisCounterStore(redisClient)}
}

// NewRateLimiterWithStore создает RateLimiter с произвольным хранилищем счётчиков
func NewRateLimiterWithStore(store CounterStore) *RateLimiter {
	return &RateLimiter{store: store}
}

// Limit возвращает Gin middleware с заданной конфигурацией.
// Ключ формируется из IP + endpoint path. При недоступности хранилища запрос пропускается.
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		key := fmt.Sprintf("%s:%s:%s", cfg.KeyPrefix, clientIP, path)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, ttl, err := rl.store.Hit(ctx, key, cfg.Window)
		if err != nil {
			log.Printf("[RateLimiter] Redis error for key %s: %v. Allowing request (fail-open).", key, err)
			c.Next()
			return
		}

		remaining := cfg.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		retryAfter := int(ttl.Seconds())

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", retryAfter))

		if int(count) > cfg.MaxRequests {
			log.Printf("[RateLimiter] Rate limit exceeded for IP=%s path=%s. Count=%d, Limit=%d",
				clientIP, path, count, cfg.MaxRequests)

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"error_type":  "rate_limited",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
