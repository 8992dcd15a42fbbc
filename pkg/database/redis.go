package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yourusername/quiz-api/internal/config"
)

// Режимы подключения к Redis
const (
	RedisModeSingle   = "single"
	RedisModeSentinel = "sentinel"
	RedisModeCluster  = "cluster"
)

// redisOptions собирает redis.UniversalOptions из конфигурации
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	addresses := cfg.Addrs
	if len(addresses) == 0 {
		if cfg.Addr == "" {
			return nil, "", fmt.Errorf("redis configuration error: Addrs or Addr must be provided")
		}
		addresses = []string{cfg.Addr}
	}

	options := &redis.UniversalOptions{
		Addrs:    addresses,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.MaxRetries != 0 {
		options.MaxRetries = cfg.MaxRetries
	}
	if cfg.MinRetryBackoff != 0 {
		options.MinRetryBackoff = time.Duration(cfg.MinRetryBackoff) * time.Millisecond
	}
	if cfg.MaxRetryBackoff != 0 {
		options.MaxRetryBackoff = time.Duration(cfg.MaxRetryBackoff) * time.Millisecond
	}

	mode := cfg.Mode
	if mode == "" {
		mode = RedisModeSingle
	}
	switch mode {
	case RedisModeSentinel:
		if cfg.MasterName == "" {
			return nil, "", fmt.Errorf("redis sentinel mode requires MasterName")
		}
		options.MasterName = cfg.MasterName
	case RedisModeSingle:
		// В single-режиме используется только первый адрес
		options.Addrs = addresses[:1]
	case RedisModeCluster:
		// NewUniversalClient выбирает кластерный клиент по количеству адресов
	default:
		return nil, "", fmt.Errorf("unsupported redis mode: %s", mode)
	}
	return options, mode, nil
}

// NewUniversalRedisClient создает клиент Redis и проверяет подключение.
// Поддерживает режимы single, sentinel, cluster.
func NewUniversalRedisClient(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error) {
	options, mode, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewUniversalClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (mode: %s, addrs: %v): %w", mode, options.Addrs, err)
	}
	return client, nil
}
