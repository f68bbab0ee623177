// Package listener relays PostgreSQL NOTIFY messages about changed
// collections into the in-process hub, so Watch streams also see writes
// made by other server instances.
package listener

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/registo/internal/logging"
	"github.com/dmitrijs2005/registo/internal/server/repositories/documents"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Publisher receives change signals; *hub.Hub satisfies it.
type Publisher interface {
	Publish(collection string)
	PublishAll()
}

// notifConn is the part of *pgx.Conn the listener needs.
type notifConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

// connect is a seam for tests.
var connect = func(ctx context.Context, dsn string) (notifConn, error) {
	return pgx.Connect(ctx, dsn)
}

type Listener struct {
	dsn   string
	retry time.Duration
	pub   Publisher
	log   logging.Logger
}

func New(dsn string, retry time.Duration, pub Publisher, log logging.Logger) *Listener {
	if retry <= 0 {
		retry = 5 * time.Second
	}
	return &Listener{dsn: dsn, retry: retry, pub: pub, log: log.With("module", "listener")}
}

// Run listens until ctx is canceled, reconnecting after every failure.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.log.Warn(ctx, "listener connection lost", "error", err, "retry_in", l.retry)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retry):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.WithoutCancel(ctx))

	if _, err := conn.Exec(ctx, "LISTEN "+documents.ChangeChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.log.Info(ctx, "listening for document changes", "channel", documents.ChangeChannel)

	// Anything committed while disconnected went unannounced.
	l.pub.PublishAll()

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		if n.Channel != documents.ChangeChannel {
			continue
		}
		l.pub.Publish(n.Payload)
	}
}
