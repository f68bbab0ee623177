package wire

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type echoServer struct {
	UnimplementedDocumentStoreServer
	inserted []InsertRequest
}

func (s *echoServer) Insert(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	r, err := ParseInsertRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	s.inserted = append(s.inserted, r)
	return wrapperspb.String("doc-1"), nil
}

func (s *echoServer) Watch(in *structpb.Struct, stream grpc.ServerStreamingServer[structpb.ListValue]) error {
	r, err := ParseWatchRequest(in)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	for i := 0; i < 2; i++ {
		l, err := EncodeSnapshot([]Document{{ID: r.Collection, Data: map[string]any{"n": float64(i)}}})
		if err != nil {
			return err
		}
		if err := stream.Send(l); err != nil {
			return err
		}
	}
	return nil
}

func startServer(t *testing.T, srv DocumentStoreServer, opts ...grpc.ServerOption) *DocumentStoreClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	RegisterDocumentStoreServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewDocumentStoreClient(conn)
}

func TestService_InsertRoundTrip(t *testing.T) {
	srv := &echoServer{}
	c := startServer(t, srv)

	req, err := (InsertRequest{Collection: "entries", Data: map[string]any{"situacao": "x"}}).Proto()
	require.NoError(t, err)

	id, err := c.Insert(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id.GetValue())
	require.Len(t, srv.inserted, 1)
	assert.Equal(t, "x", srv.inserted[0].Data["situacao"])
}

func TestService_InsertValidationError(t *testing.T) {
	c := startServer(t, &echoServer{})

	_, err := c.Insert(context.Background(), &structpb.Struct{})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestService_Unimplemented(t *testing.T) {
	c := startServer(t, &echoServer{})

	_, err := c.Ping(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))

	_, err = c.Delete(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestService_WatchStreamsSnapshots(t *testing.T) {
	c := startServer(t, &echoServer{})

	req, err := (WatchRequest{Collection: "entries", OrderBy: "dataHora", Desc: true}).Proto()
	require.NoError(t, err)

	stream, err := c.Watch(context.Background(), req)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		l, err := stream.Recv()
		require.NoError(t, err)
		docs, err := DecodeSnapshot(l)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "entries", docs[0].ID)
		assert.Equal(t, float64(i), docs[0].Data["n"])
	}

	_, err = stream.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestService_InterceptorSeesFullMethod(t *testing.T) {
	var seen []string
	unary := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = append(seen, info.FullMethod)
		return handler(ctx, req)
	}
	c := startServer(t, &echoServer{}, grpc.UnaryInterceptor(unary))

	req, err := (InsertRequest{Collection: "entries", Data: map[string]any{}}).Proto()
	require.NoError(t, err)
	_, err = c.Insert(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{MethodInsert}, seen)
}
