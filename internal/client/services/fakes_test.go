package services

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/registo/internal/client/client"
	"github.com/dmitrijs2005/registo/internal/client/models"
)

type snapshotMsg struct {
	entries []models.Entry
	err     error
}

// fakeSub delivers whatever the test pushes into ch.
type fakeSub struct {
	ch      chan snapshotMsg
	stopped chan struct{}
	once    sync.Once
}

func newFakeSub() *fakeSub {
	return &fakeSub{ch: make(chan snapshotMsg, 8), stopped: make(chan struct{})}
}

func (f *fakeSub) push(entries ...models.Entry) { f.ch <- snapshotMsg{entries: entries} }
func (f *fakeSub) fail(err error)               { f.ch <- snapshotMsg{err: err} }

func (f *fakeSub) Next() ([]models.Entry, error) {
	select {
	case <-f.stopped:
		return nil, client.ErrSubscriptionClosed
	default:
	}
	select {
	case m := <-f.ch:
		return m.entries, m.err
	case <-f.stopped:
		return nil, client.ErrSubscriptionClosed
	}
}

func (f *fakeSub) Stop() { f.once.Do(func() { close(f.stopped) }) }

func (f *fakeSub) isStopped() bool {
	select {
	case <-f.stopped:
		return true
	default:
		return false
	}
}

type fakeRemote struct {
	mu sync.Mutex

	// subscribe decides the outcome of the n-th Subscribe call.
	subscribe func(n int, q client.Query) (client.Subscription, error)
	queries   []client.Query

	insertID  string
	insertErr error
	inserted  []models.Entry

	deleteErr error
	deleted   []string

	closed bool
}

func (f *fakeRemote) Subscribe(ctx context.Context, q client.Query) (client.Subscription, error) {
	f.mu.Lock()
	n := len(f.queries)
	f.queries = append(f.queries, q)
	fn := f.subscribe
	f.mu.Unlock()
	if fn == nil {
		return nil, client.ErrUnavailable
	}
	return fn(n, q)
}

func (f *fakeRemote) Insert(ctx context.Context, e models.Entry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, e)
	return f.insertID, f.insertErr
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeRemote) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeRemote) seenQueries() []client.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.queries)
}

type memMirror struct {
	mu      sync.Mutex
	entries []models.Entry
	saves   int
	saveErr error
}

func (m *memMirror) Load(ctx context.Context) ([]models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries), nil
}

func (m *memMirror) Save(ctx context.Context, entries []models.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries = slices.Clone(entries)
	m.saves++
	return nil
}

func (m *memMirror) stored() []models.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries)
}

var errBoom = errors.New("boom")
