package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/registo/internal/client/client"
	"github.com/dmitrijs2005/registo/internal/client/models"
	"github.com/dmitrijs2005/registo/internal/common"
	"github.com/dmitrijs2005/registo/internal/logging"
	"github.com/google/uuid"
)

type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Mirror is the local persisted copy of the entry list.
type Mirror interface {
	Load(ctx context.Context) ([]models.Entry, error)
	Save(ctx context.Context, entries []models.Entry) error
}

// EntryService owns the journal's entry list.
type EntryService interface {
	Initialize(ctx context.Context) error
	Create(ctx context.Context, d models.Draft) (models.Entry, error)
	Delete(ctx context.Context, id string) error
	Entries() []models.Entry
	Watch(fn func([]models.Entry)) (unregister func())
	Mode() Mode
	Close() error
}

type EntryServiceOptions struct {
	// Strategies defaults to DefaultStrategies.
	Strategies []Strategy
	// SubscribeTimeout bounds the wait for a strategy's first snapshot.
	SubscribeTimeout time.Duration
	Now              func() time.Time
	Logger           logging.Logger
}

type entryService struct {
	remote client.RemoteStore
	mirror Mirror
	opts   EntryServiceOptions
	log    logging.Logger

	life   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	entries   []models.Entry
	mode      Mode
	sub       client.Subscription
	listeners map[int]func([]models.Entry)
	nextID    int
	closed    bool
}

// NewEntryService builds the store. A nil remote means no remote backend is
// configured and the store works from the mirror only.
func NewEntryService(remote client.RemoteStore, mirror Mirror, opts EntryServiceOptions) EntryService {
	if len(opts.Strategies) == 0 {
		opts.Strategies = DefaultStrategies
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &entryService{
		remote:    remote,
		mirror:    mirror,
		opts:      opts,
		log:       opts.Logger.With("component", "entry_store"),
		entries:   []models.Entry{},
		mode:      ModeLocal,
		listeners: map[int]func([]models.Entry){},
	}
}

func (s *entryService) Initialize(ctx context.Context) error {
	if s.remote == nil {
		s.log.Info(ctx, "remote store not configured, using local mirror")
		return s.loadLocal(ctx)
	}

	s.mu.Lock()
	s.life, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Unlock()

	return s.connect(ctx, 0)
}

// connect walks the strategy chain starting at from. Exhausting the chain
// abandons remote sync for the rest of the session.
func (s *entryService) connect(ctx context.Context, from int) error {
	for i := from; i < len(s.opts.Strategies); i++ {
		st := s.opts.Strategies[i]

		sub, first, err := openStrategy(ctx, s.life, s.remote, st, s.opts.SubscribeTimeout)
		if err != nil {
			if ctx.Err() != nil || s.isClosed() {
				return ctx.Err()
			}
			s.log.Warn(ctx, "subscription strategy failed", "strategy", st.Name, "error", err)
			continue
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			sub.Stop()
			return nil
		}
		s.sub = sub
		s.mode = ModeRemote
		s.wg.Add(1)
		s.mu.Unlock()

		s.log.Info(ctx, "subscribed to remote store", "strategy", st.Name)
		s.applySnapshot(ctx, first)
		go s.pump(i, sub)
		return nil
	}

	s.log.Warn(ctx, "all subscription strategies failed, switching to local mirror")
	s.mu.Lock()
	s.mode = ModeLocal
	s.sub = nil
	s.mu.Unlock()
	return s.loadLocal(ctx)
}

func (s *entryService) pump(idx int, sub client.Subscription) {
	defer s.wg.Done()
	for {
		entries, err := sub.Next()
		if err != nil {
			if errors.Is(err, client.ErrSubscriptionClosed) || s.isClosed() {
				return
			}
			st := s.opts.Strategies[idx]
			s.log.Warn(s.life, "live subscription failed", "strategy", st.Name, "error", err)
			sub.Stop()
			_ = s.connect(s.life, idx+1)
			return
		}
		s.applySnapshot(s.life, entries)
	}
}

// applySnapshot replaces the list with a remote snapshot. Applying the same
// snapshot twice leaves the same state.
func (s *entryService) applySnapshot(ctx context.Context, entries []models.Entry) {
	sorted := models.Sorted(entries)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.entries = sorted
	if err := s.mirror.Save(ctx, sorted); err != nil {
		s.log.Error(ctx, "failed to write local mirror", "error", err)
	}
	view, listeners := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Debug(ctx, "snapshot applied", "entries", len(sorted))
	notify(listeners, view)
}

func (s *entryService) loadLocal(ctx context.Context) error {
	entries, err := s.mirror.Load(ctx)
	if err != nil {
		return fmt.Errorf("load local mirror: %w", err)
	}

	s.mu.Lock()
	s.entries = models.Sorted(entries)
	view, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, view)
	return nil
}

func (s *entryService) Create(ctx context.Context, d models.Draft) (models.Entry, error) {
	e, err := models.NewEntry(d, s.opts.Now())
	if err != nil {
		return models.Entry{}, err
	}

	if s.Mode() == ModeRemote {
		id, err := s.remote.Insert(ctx, e)
		if err == nil {
			e.ID = id
			return e, nil
		}
		s.log.Warn(ctx, "remote insert failed, saving locally", "error", err)
	}

	return s.insertLocal(ctx, e)
}

func (s *entryService) insertLocal(ctx context.Context, e models.Entry) (models.Entry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return models.Entry{}, fmt.Errorf("generate id: %w", err)
	}
	e.ID = id.String()

	s.mu.Lock()
	next := append([]models.Entry{e}, s.entries...)
	models.SortByDateDesc(next)
	if err := s.mirror.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Entry{}, fmt.Errorf("save local mirror: %w", err)
	}
	s.entries = next
	view, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, view)
	return e, nil
}

func (s *entryService) Delete(ctx context.Context, id string) error {
	if s.Mode() == ModeRemote {
		err := s.remote.Delete(ctx, id)
		if err == nil {
			return nil
		}
		s.log.Warn(ctx, "remote delete failed, removing locally", "id", id, "error", err)
	}

	return s.removeLocal(ctx, id)
}

func (s *entryService) removeLocal(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := slices.IndexFunc(s.entries, func(e models.Entry) bool { return e.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("entry %s: %w", id, common.ErrorNotFound)
	}
	next := slices.Delete(slices.Clone(s.entries), idx, idx+1)
	if err := s.mirror.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save local mirror: %w", err)
	}
	s.entries = next
	view, listeners := s.snapshotLocked()
	s.mu.Unlock()

	notify(listeners, view)
	return nil
}

func (s *entryService) Entries() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Sorted(s.entries)
}

func (s *entryService) Watch(fn func([]models.Entry)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *entryService) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *entryService) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	sub := s.sub
	s.sub = nil
	cancel := s.cancel
	s.mu.Unlock()

	if sub != nil {
		sub.Stop()
	}
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	if s.remote != nil {
		return s.remote.Close()
	}
	return nil
}

func (s *entryService) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *entryService) snapshotLocked() ([]models.Entry, []func([]models.Entry)) {
	listeners := make([]func([]models.Entry), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	return slices.Clone(s.entries), listeners
}

func notify(listeners []func([]models.Entry), entries []models.Entry) {
	for _, fn := range listeners {
		fn(slices.Clone(entries))
	}
}
