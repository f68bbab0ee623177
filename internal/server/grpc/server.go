// Package grpc exposes the document service over the DocumentStore gRPC
// contract described in internal/wire.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/registo/internal/logging"
	"github.com/dmitrijs2005/registo/internal/server/models"
	"github.com/dmitrijs2005/registo/internal/wire"
	"google.golang.org/grpc"
)

// Documents is the part of services.DocumentService the transport uses.
type Documents interface {
	Insert(ctx context.Context, collection string, data map[string]any) (string, error)
	Delete(ctx context.Context, collection, id string) error
	Watch(ctx context.Context, collection, orderBy string, desc bool, send func([]*models.Document) error) error
}

type GRPCServer struct {
	wire.UnimplementedDocumentStoreServer
	address   string
	documents Documents
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, docs Documents, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		documents: docs,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.accessTokenStreamInterceptor),
	)
	wire.RegisterDocumentStoreServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
