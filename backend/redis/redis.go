// Package redis adapts a Redis server to collection.Backend.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fulldump/recordstore/collection"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

type Backend struct {
	client goredis.UniversalClient
}

func New(client goredis.UniversalClient) *Backend {
	return &Backend{
		client: client,
	}
}

// Dial connects to the server described by config and checks it answers.
func Dial(ctx context.Context, config *Config) (*Backend, error) {

	client := goredis.NewClient(&goredis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	err := client.Ping(ctx).Err()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis '%s': %w", config.Addr, err)
	}

	return New(client), nil
}

func (b *Backend) Close() error {
	return b.client.Close()
}

func (b *Backend) Increment(ctx context.Context, key string) (int64, error) {
	return b.client.Incr(ctx, key).Result()
}

// WriteFields issues HMSET and returns its raw status reply. Error replies
// from the server (WRONGTYPE, ...) are returned as the reply, not as error.
func (b *Backend) WriteFields(ctx context.Context, key string, fields collection.Record) (string, error) {

	args := make([]interface{}, 0, 2+2*len(fields))
	args = append(args, "HMSET", key)
	for k, v := range fields {
		args = append(args, k, v)
	}

	reply, err := b.client.Do(ctx, args...).Text()
	var redisErr goredis.Error
	if errors.As(err, &redisErr) {
		return redisErr.Error(), nil
	}
	if err != nil {
		return "", err
	}

	return reply, nil
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	n, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *Backend) ReadFields(ctx context.Context, key string) (collection.Record, error) {
	fields, err := b.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

func (b *Backend) Scan(ctx context.Context, cursor uint64, match string, count int64) (uint64, []string, error) {
	keys, next, err := b.client.Scan(ctx, cursor, match, count).Result()
	if err != nil {
		return collection.CursorStart, nil, err
	}
	return next, keys, nil
}
