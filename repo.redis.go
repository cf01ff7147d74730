package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const HCarts string = "carts"

type redisCartStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisCartStorage provides an instance of redis-based cart storage.
func NewRedisCartStorage(logger *zap.Logger, client *redis.Client) CartStorage {
	return &redisCartStorage{
		logger: logger,
		client: client,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Get retrieves the cart ledger of a session. A session without a stored
// cart reads as an empty ledger, not as an error.
func (rs *redisCartStorage) Get(ctx context.Context, sessionID string) (*CartLedger, error) {
	ledgerJSONString, err := rs.client.HGet(ctx, HCarts, sessionID).Result()
	if err == redis.Nil {
		return NewCartLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	ledger := NewCartLedger()
	err = json.Unmarshal([]byte(ledgerJSONString), ledger)
	return ledger, err
}

// Save replaces the stored cart ledger of a session.
func (rs *redisCartStorage) Save(ctx context.Context, sessionID string, ledger *CartLedger) error {
	ledgerBytes, err := json.Marshal(ledger)
	if err != nil {
		return err
	}
	return rs.client.HSet(ctx, HCarts, sessionID, ledgerBytes).Err()
}

// Delete removes the stored cart ledger of a session.
func (rs *redisCartStorage) Delete(ctx context.Context, sessionID string) error {
	return rs.client.HDel(ctx, HCarts, sessionID).Err()
}
