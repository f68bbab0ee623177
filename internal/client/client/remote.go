package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/registo/internal/client/models"
)

// Query selects the ordering of a subscription. An empty OrderBy asks for
// the collection's natural order.
type Query struct {
	OrderBy string
	Desc    bool
}

// Subscription is a live view of a collection. Next blocks until the next
// full snapshot is available. Stop releases the subscription and unblocks
// a pending Next, which then returns ErrSubscriptionClosed.
type Subscription interface {
	Next() ([]models.Entry, error)
	Stop()
}

// RemoteStore is a hosted document collection holding journal entries.
type RemoteStore interface {
	Subscribe(ctx context.Context, q Query) (Subscription, error)
	Insert(ctx context.Context, e models.Entry) (string, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

const (
	BackendNone      = ""
	BackendGRPC      = "grpc"
	BackendFirestore = "firestore"
)

// Options describe how to reach the remote backend.
type Options struct {
	Backend    string
	Collection string

	GRPCAddr   string
	ClientID   string
	AuthSecret string
	TokenTTL   time.Duration

	FirestoreProjectID       string
	FirestoreCredentialsFile string
}

// Open builds the RemoteStore described by opts. It returns (nil, nil) when
// no backend is configured or the settings are still template placeholders.
func Open(ctx context.Context, opts Options) (RemoteStore, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendNone:
		return nil, nil
	case BackendGRPC:
		if isPlaceholder(opts.GRPCAddr) {
			return nil, nil
		}
		s, err := NewGRPCStore(opts.GRPCAddr, GRPCOptions{
			Collection: opts.Collection,
			ClientID:   opts.ClientID,
			Secret:     opts.AuthSecret,
			TokenTTL:   opts.TokenTTL,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendFirestore:
		if isPlaceholder(opts.FirestoreProjectID) {
			return nil, nil
		}
		s, err := NewFirestoreStore(ctx, FirestoreOptions{
			ProjectID:       opts.FirestoreProjectID,
			CredentialsFile: opts.FirestoreCredentialsFile,
			Collection:      opts.Collection,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown remote backend %q", opts.Backend)
	}
}

// isPlaceholder reports values copied verbatim from a config template.
func isPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	u := strings.ToUpper(v)
	return strings.HasPrefix(u, "YOUR_") || strings.HasPrefix(u, "<") || u == "CHANGEME"
}
