// Package hub fans collection change signals out to live Watch streams.
//
// Topics are collection names on a juju SimpleHub. Each subscriber owns a
// channel with a buffer of one and its handler never blocks: a signal that
// finds the buffer full is dropped, so bursts of writes coalesce into a
// single wake-up and a slow subscriber never holds up the writer.
package hub

import (
	"context"
	"fmt"
	"sync"

	"github.com/juju/pubsub/v2"

	"github.com/dmitrijs2005/registo/internal/logging"
)

// resyncTopic is published by PublishAll; every subscriber matches it.
const resyncTopic = "hub.resync"

type Hub struct {
	ps *pubsub.SimpleHub

	mu    sync.Mutex
	count map[string]int
}

func New(log logging.Logger) *Hub {
	if log == nil {
		log = logging.Discard()
	}
	return &Hub{
		ps:    pubsub.NewSimpleHub(&pubsub.SimpleHubConfig{Logger: hubLogger{log: log}}),
		count: make(map[string]int),
	}
}

// Subscribe registers interest in collection. The returned cancel func
// must be called once the subscriber is done.
func (h *Hub) Subscribe(collection string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	unsub := h.ps.SubscribeMatch(
		func(topic string) bool { return topic == collection || topic == resyncTopic },
		func(string, interface{}) {
			select {
			case ch <- struct{}{}:
			default:
			}
		},
	)

	h.mu.Lock()
	h.count[collection]++
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			unsub()
			h.mu.Lock()
			defer h.mu.Unlock()
			if h.count[collection]--; h.count[collection] <= 0 {
				delete(h.count, collection)
			}
		})
	}
}

// Publish wakes every subscriber of collection and returns once each of
// them has been signalled.
func (h *Hub) Publish(collection string) {
	h.ps.Publish(collection, nil)()
}

// PublishAll wakes every subscriber, used after the listener reconnects
// and may have missed notifications.
func (h *Hub) PublishAll() {
	h.ps.Publish(resyncTopic, nil)()
}

// Subscribers reports how many subscribers collection has.
func (h *Hub) Subscribers(collection string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count[collection]
}

// hubLogger routes the SimpleHub's printf-style logging into logging.Logger.
type hubLogger struct {
	log logging.Logger
}

func (l hubLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(context.Background(), fmt.Sprintf(format, args...), "module", "hub")
}

func (l hubLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(context.Background(), fmt.Sprintf(format, args...), "module", "hub")
}

func (l hubLogger) Infof(format string, args ...interface{}) {
	l.log.Info(context.Background(), fmt.Sprintf(format, args...), "module", "hub")
}

func (l hubLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(context.Background(), fmt.Sprintf(format, args...), "module", "hub")
}

// Tracef is below the slog levels in use and is dropped.
func (l hubLogger) Tracef(string, ...interface{}) {}
