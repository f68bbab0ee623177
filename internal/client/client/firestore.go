package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/dmitrijs2005/registo/internal/client/models"
	"github.com/dmitrijs2005/registo/internal/common"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type FirestoreOptions struct {
	ProjectID       string
	CredentialsFile string
	Collection      string
}

// FirestoreStore is a RemoteStore backed by a Cloud Firestore collection.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(ctx context.Context, opts FirestoreOptions) (*FirestoreStore, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	if opts.Collection == "" {
		opts.Collection = common.EntriesCollection
	}

	c, err := firestore.NewClient(ctx, opts.ProjectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: c, collection: opts.Collection}, nil
}

func direction(desc bool) firestore.Direction {
	if desc {
		return firestore.Desc
	}
	return firestore.Asc
}

func (f *FirestoreStore) Subscribe(ctx context.Context, q Query) (Subscription, error) {
	query := f.client.Collection(f.collection).Query
	if q.OrderBy != "" {
		query = query.OrderBy(q.OrderBy, direction(q.Desc))
	}
	return &firestoreSubscription{it: query.Snapshots(ctx)}, nil
}

func (f *FirestoreStore) Insert(ctx context.Context, e models.Entry) (string, error) {
	ref, _, err := f.client.Collection(f.collection).Add(ctx, e.Fields())
	if err != nil {
		return "", mapError(err)
	}
	return ref.ID, nil
}

func (f *FirestoreStore) Delete(ctx context.Context, id string) error {
	_, err := f.client.Collection(f.collection).Doc(id).Delete(ctx)
	return mapError(err)
}

func (f *FirestoreStore) Close() error {
	return f.client.Close()
}

// snapshotIterator is the part of *firestore.QuerySnapshotIterator the
// subscription drives.
type snapshotIterator interface {
	Next() (*firestore.QuerySnapshot, error)
	Stop()
}

type firestoreSubscription struct {
	it   snapshotIterator
	once sync.Once
}

func (s *firestoreSubscription) Next() ([]models.Entry, error) {
	snap, err := s.it.Next()
	if errors.Is(err, iterator.Done) {
		return nil, ErrSubscriptionClosed
	}
	if err != nil {
		return nil, mapError(err)
	}

	docs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, mapError(err)
	}

	entries := make([]models.Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, models.FromFields(d.Ref.ID, d.Data()))
	}
	return entries, nil
}

func (s *firestoreSubscription) Stop() {
	s.once.Do(s.it.Stop)
}
