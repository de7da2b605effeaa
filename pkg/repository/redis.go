package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/example/fondantshop/pkg/config"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type RedisRepository struct {
	client  *redis.Client
	config  *config.RedisConfig
	channel string
	logger  *zap.Logger
}

func NewRedisRepository(cfg *config.RedisConfig, channel string, logger *zap.Logger) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config:  cfg,
		channel: channel,
		logger:  logger,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (r *RedisRepository) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Publish sends the change on the configured pub/sub channel.
func (r *RedisRepository) Publish(ctx context.Context, change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}

func (r *RedisRepository) Subscribe(ctx context.Context, handler func(Change)) (func(), error) {
	pubsub := r.client.Subscribe(ctx, r.channel)
	// Wait for the subscription to be confirmed before returning.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	go func() {
		for msg := range pubsub.Channel() {
			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				r.logger.Warn("Dropping malformed storage signal",
					zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			handler(change)
		}
	}()

	return func() { pubsub.Close() }, nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}
