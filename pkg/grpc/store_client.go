package grpc

import (
	"context"
	"fmt"

	"github.com/example/fondantshop/pkg/discovery"
	"github.com/example/fondantshop/pkg/repository"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// StoreClient is a repository.Backend backed by a remote document store.
type StoreClient struct {
	conn   *grpc.ClientConn
	logger *zap.Logger
}

var _ repository.Backend = (*StoreClient)(nil)

// DialStore connects to the document store. The address is taken from
// service discovery when disc is set, falling back to defaultAddr.
func DialStore(ctx context.Context, disc discovery.Discoverer, defaultAddr string, logger *zap.Logger, opts ...grpc.DialOption) (*StoreClient, error) {
	logger = logger.Named("docstore-client")
	target := discovery.Address(ctx, disc, discovery.DocStoreService, defaultAddr, logger)

	logger.Info("Connecting to document store", zap.String("target", target))

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}
	return &StoreClient{conn: conn, logger: logger}, nil
}

func (c *StoreClient) Get(ctx context.Context, key string) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.conn.Invoke(ctx, getMethod, wrapperspb.String(key), out); err != nil {
		if status.Code(err) == codes.NotFound {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return out.GetValue(), nil
}

func (c *StoreClient) Set(ctx context.Context, key, value string) error {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		keyField:   structpb.NewStringValue(key),
		valueField: structpb.NewStringValue(value),
	}}
	return c.conn.Invoke(ctx, setMethod, req, new(emptypb.Empty))
}

func (c *StoreClient) Del(ctx context.Context, key string) error {
	return c.conn.Invoke(ctx, deleteMethod, wrapperspb.String(key), new(emptypb.Empty))
}

func (c *StoreClient) Close() error {
	return c.conn.Close()
}
