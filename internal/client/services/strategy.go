package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/registo/internal/client/client"
	"github.com/dmitrijs2005/registo/internal/client/models"
	"github.com/dmitrijs2005/registo/internal/common"
)

// Strategy is one way of opening a live subscription to the remote
// collection.
type Strategy struct {
	Name  string
	Query client.Query
}

// DefaultStrategies are tried in order: newest first as sorted by the
// backend, then the collection's natural order (which needs no index).
var DefaultStrategies = []Strategy{
	{Name: "ordered", Query: client.Query{OrderBy: common.DateTimeField, Desc: true}},
	{Name: "unordered", Query: client.Query{}},
}

type firstSnapshot struct {
	entries []models.Entry
	err     error
}

// openStrategy subscribes and waits for the first snapshot. The strategy
// only counts as established once that snapshot arrives. A zero timeout
// waits as long as ctx allows.
func openStrategy(ctx, life context.Context, remote client.RemoteStore, st Strategy, timeout time.Duration) (client.Subscription, []models.Entry, error) {
	sub, err := remote.Subscribe(life, st.Query)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan firstSnapshot, 1)
	go func() {
		entries, err := sub.Next()
		ch <- firstSnapshot{entries: entries, err: err}
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case r := <-ch:
		if r.err != nil {
			sub.Stop()
			return nil, nil, r.err
		}
		return sub, r.entries, nil
	case <-expired:
		sub.Stop()
		return nil, nil, fmt.Errorf("%w: no snapshot within %s", client.ErrUnavailable, timeout)
	case <-ctx.Done():
		sub.Stop()
		return nil, nil, ctx.Err()
	}
}
