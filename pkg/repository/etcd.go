package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/fondantshop/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

const etcdSignalDir = "signals/"

// EtcdRepository stores documents under a key prefix. Signals are written
// under <prefix>signals/ and observed with a watch.
type EtcdRepository struct {
	client *clientv3.Client
	config *config.EtcdConfig
	logger *zap.Logger
}

func NewEtcdRepository(cfg *config.EtcdConfig, logger *zap.Logger) (*EtcdRepository, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}
	return &EtcdRepository{client: cli, config: cfg, logger: logger}, nil
}

func (e *EtcdRepository) key(key string) string {
	return e.config.Prefix + "data/" + key
}

func (e *EtcdRepository) Get(ctx context.Context, key string) (string, error) {
	resp, err := e.client.Get(ctx, e.key(key))
	if err != nil {
		return "", err
	}
	if len(resp.Kvs) == 0 {
		return "", ErrNotFound
	}
	return string(resp.Kvs[0].Value), nil
}

func (e *EtcdRepository) Set(ctx context.Context, key, value string) error {
	_, err := e.client.Put(ctx, e.key(key), value)
	return err
}

func (e *EtcdRepository) Del(ctx context.Context, key string) error {
	_, err := e.client.Delete(ctx, e.key(key))
	return err
}

func (e *EtcdRepository) Publish(ctx context.Context, change Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	_, err = e.client.Put(ctx, e.config.Prefix+etcdSignalDir+change.Key, string(data))
	return err
}

func (e *EtcdRepository) Subscribe(ctx context.Context, handler func(Change)) (func(), error) {
	watchCtx, cancel := context.WithCancel(ctx)
	ch := e.client.Watch(watchCtx, e.config.Prefix+etcdSignalDir, clientv3.WithPrefix())

	go func() {
		for resp := range ch {
			if err := resp.Err(); err != nil {
				e.logger.Warn("Storage signal watch failed", zap.Error(err))
				continue
			}
			for _, ev := range resp.Events {
				if ev.Type != clientv3.EventTypePut {
					continue
				}
				var change Change
				if err := json.Unmarshal(ev.Kv.Value, &change); err != nil {
					e.logger.Warn("Dropping malformed storage signal", zap.Error(err))
					continue
				}
				handler(change)
			}
		}
	}()

	return cancel, nil
}

func (e *EtcdRepository) Close() error {
	return e.client.Close()
}
