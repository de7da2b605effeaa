package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/example/fondantshop/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// AuditWriter records store mutations. *repository.MongoRepository
// satisfies it.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *repository.AuditLog) error
}

// StoreServer exposes a repository.Backend over gRPC.
type StoreServer struct {
	backend repository.Backend
	audit   AuditWriter
	logger  *zap.Logger
	server  *grpc.Server
}

func NewStoreServer(backend repository.Backend, logger *zap.Logger) *StoreServer {
	return &StoreServer{backend: backend, logger: logger.Named("docstore")}
}

// WithAudit makes the server record every Set and Delete.
func (s *StoreServer) WithAudit(audit AuditWriter) *StoreServer {
	s.audit = audit
	return s
}

// Register adds the document store service to srv.
func (s *StoreServer) Register(srv *grpc.Server) {
	RegisterDocumentStoreServer(srv, s)
	reflection.Register(srv)
}

// Start listens on addr and serves until Stop is called.
func (s *StoreServer) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.server = grpc.NewServer()
	s.Register(s.server)

	s.logger.Info("Document store started", zap.String("address", addr))

	return s.server.Serve(lis)
}

func (s *StoreServer) Stop() {
	if s.server != nil {
		s.server.GracefulStop()
	}
}

func (s *StoreServer) Get(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}
	value, err := s.backend.Get(ctx, req.GetValue())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "document not found")
		}
		s.logger.Error("Failed to get document", zap.String("key", req.GetValue()), zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to get document")
	}
	return wrapperspb.String(value), nil
}

func (s *StoreServer) Set(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	fields := req.GetFields()
	key := fields[keyField].GetStringValue()
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}
	value := fields[valueField].GetStringValue()

	if err := s.backend.Set(ctx, key, value); err != nil {
		s.logger.Error("Failed to set document", zap.String("key", key), zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to set document")
	}

	s.record(ctx, "set_document", key, bson.M{"size": len(value)})
	return &emptypb.Empty{}, nil
}

func (s *StoreServer) Delete(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}
	if err := s.backend.Del(ctx, req.GetValue()); err != nil {
		s.logger.Error("Failed to delete document", zap.String("key", req.GetValue()), zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to delete document")
	}

	s.record(ctx, "delete_document", req.GetValue(), nil)
	return &emptypb.Empty{}, nil
}

func (s *StoreServer) record(ctx context.Context, action, key string, data bson.M) {
	if s.audit == nil {
		return
	}
	entry := &repository.AuditLog{
		Service:  "docstore",
		Action:   action,
		EntityID: key,
		Data:     data,
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("Failed to write audit log", zap.String("key", key), zap.Error(err))
	}
}
