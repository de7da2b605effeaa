package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/example/fondantshop/pkg/config"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository keeps each document as {value, updatedAt} under
// <collection>/<key>.
type FirestoreRepository struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreRepository(ctx context.Context, cfg *config.FirestoreConfig, opts ...option.ClientOption) (*FirestoreRepository, error) {
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &FirestoreRepository{client: client, collection: cfg.Collection}, nil
}

func (f *FirestoreRepository) Get(ctx context.Context, key string) (string, error) {
	snap, err := f.client.Collection(f.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	raw, err := snap.DataAt("value")
	if err != nil {
		return "", err
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("firestore: %s/value is %T, not string", key, raw)
	}
	return value, nil
}

func (f *FirestoreRepository) Set(ctx context.Context, key, value string) error {
	_, err := f.client.Collection(f.collection).Doc(key).Set(ctx, map[string]interface{}{
		"value":     value,
		"updatedAt": time.Now(),
	})
	return err
}

func (f *FirestoreRepository) Del(ctx context.Context, key string) error {
	_, err := f.client.Collection(f.collection).Doc(key).Delete(ctx)
	return err
}

func (f *FirestoreRepository) Close() error {
	return f.client.Close()
}
