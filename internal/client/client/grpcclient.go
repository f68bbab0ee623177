package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/registo/internal/auth"
	"github.com/dmitrijs2005/registo/internal/client/models"
	"github.com/dmitrijs2005/registo/internal/common"
	"github.com/dmitrijs2005/registo/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const defaultTokenTTL = 5 * time.Minute

type GRPCOptions struct {
	Collection string
	ClientID   string
	Secret     string
	TokenTTL   time.Duration
}

// GRPCStore is a RemoteStore backed by the registo document server.
type GRPCStore struct {
	endpointURL string
	opts        GRPCOptions
	conn        *grpc.ClientConn
	client      *wire.DocumentStoreClient
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// authorize attaches a freshly signed token. Without a secret the call goes
// out as is and the server decides.
func (s *GRPCStore) authorize(ctx context.Context) (context.Context, error) {
	if s.opts.Secret == "" {
		return ctx, nil
	}
	token, err := auth.GenerateToken(s.opts.ClientID, []byte(s.opts.Secret), s.opts.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return withAccessToken(ctx, token), nil
}

func (s *GRPCStore) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	ctx, err := s.authorize(ctx)
	if err != nil {
		return err
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCStore) accessTokenStreamInterceptor(
	ctx context.Context,
	desc *grpc.StreamDesc,
	cc *grpc.ClientConn,
	method string,
	streamer grpc.Streamer,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	ctx, err := s.authorize(ctx)
	if err != nil {
		return nil, err
	}
	return streamer(ctx, desc, cc, method, opts...)
}

func NewGRPCStore(endpointURL string, opts GRPCOptions, dialOpts ...grpc.DialOption) (*GRPCStore, error) {
	if opts.Collection == "" {
		opts.Collection = common.EntriesCollection
	}
	if opts.ClientID == "" {
		opts.ClientID = "registo-client"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}

	s := &GRPCStore{endpointURL: endpointURL, opts: opts}

	all := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithStreamInterceptor(s.accessTokenStreamInterceptor),
	}, dialOpts...)

	conn, err := grpc.NewClient(endpointURL, all...)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	s.client = wire.NewDocumentStoreClient(conn)
	return s, nil
}

func (s *GRPCStore) Ping(ctx context.Context) error {
	_, err := s.client.Ping(ctx, &emptypb.Empty{})
	return mapError(err)
}

func (s *GRPCStore) Insert(ctx context.Context, e models.Entry) (string, error) {
	req, err := (wire.InsertRequest{Collection: s.opts.Collection, Data: e.Fields()}).Proto()
	if err != nil {
		return "", err
	}
	resp, err := s.client.Insert(ctx, req)
	if err != nil {
		return "", mapError(err)
	}
	return resp.GetValue(), nil
}

func (s *GRPCStore) Delete(ctx context.Context, id string) error {
	req, err := (wire.DeleteRequest{Collection: s.opts.Collection, ID: id}).Proto()
	if err != nil {
		return err
	}
	_, err = s.client.Delete(ctx, req)
	return mapError(err)
}

func (s *GRPCStore) Subscribe(ctx context.Context, q Query) (Subscription, error) {
	req, err := (wire.WatchRequest{Collection: s.opts.Collection, OrderBy: q.OrderBy, Desc: q.Desc}).Proto()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	stream, err := s.client.Watch(ctx, req)
	if err != nil {
		cancel()
		return nil, mapError(err)
	}
	return &grpcSubscription{stream: stream, cancel: cancel}, nil
}

func (s *GRPCStore) Close() error {
	return s.conn.Close()
}

type grpcSubscription struct {
	stream grpc.ServerStreamingClient[structpb.ListValue]
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
}

func (g *grpcSubscription) Next() ([]models.Entry, error) {
	l, err := g.stream.Recv()
	if err != nil {
		g.mu.Lock()
		stopped := g.stopped
		g.mu.Unlock()
		if stopped {
			return nil, ErrSubscriptionClosed
		}
		return nil, mapError(err)
	}

	docs, err := wire.DecodeSnapshot(l)
	if err != nil {
		return nil, err
	}
	entries := make([]models.Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, models.FromFields(d.ID, d.Data))
	}
	return entries, nil
}

func (g *grpcSubscription) Stop() {
	g.mu.Lock()
	g.stopped = true
	g.mu.Unlock()
	g.cancel()
}
