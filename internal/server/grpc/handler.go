package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/registo/internal/common"
	"github.com/dmitrijs2005/registo/internal/server/models"
	"github.com/dmitrijs2005/registo/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Insert(ctx context.Context, req *structpb.Struct) (*wrapperspb.StringValue, error) {
	in, err := wire.ParseInsertRequest(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	id, err := s.documents.Insert(ctx, in.Collection, in.Data)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Inserted", "collection", in.Collection, "id", id, "client", clientIDFromContext(ctx))
	return wrapperspb.String(id), nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	in, err := wire.ParseDeleteRequest(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	if err := s.documents.Delete(ctx, in.Collection, in.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Deleted", "collection", in.Collection, "id", in.ID, "client", clientIDFromContext(ctx))
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Watch(req *structpb.Struct, stream grpc.ServerStreamingServer[structpb.ListValue]) error {
	ctx := stream.Context()

	in, err := wire.ParseWatchRequest(req)
	if err != nil {
		return s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Watch started", "collection", in.Collection, "order_by", in.OrderBy, "desc", in.Desc, "client", clientIDFromContext(ctx))

	err = s.documents.Watch(ctx, in.Collection, in.OrderBy, in.Desc, func(docs []*models.Document) error {
		snap, err := wire.EncodeSnapshot(toWire(docs))
		if err != nil {
			return err
		}
		return stream.Send(snap)
	})
	if err != nil {
		return s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Watch finished", "collection", in.Collection)
	return nil
}

func toWire(docs []*models.Document) []wire.Document {
	out := make([]wire.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, wire.Document{ID: d.ID, Data: d.Data})
	}
	return out
}

// toStatus maps service errors to gRPC status codes.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrIndexRequired):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}
