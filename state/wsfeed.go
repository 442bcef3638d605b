package state

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/tabdeck/tabdeck/core"
)

// Feed streams entity-state events from a websocket endpoint into a
// Store. Each message is one JSON event:
//
//	{"entity_id": "light.desk", "state": "on", "attrs": {...}}
//
// The feed reconnects with backoff until its context is cancelled or
// Close is called.
type Feed struct {
	url   string
	store *Store
	log   logrus.FieldLogger

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

type feedEvent struct {
	EntityID string         `json:"entity_id"`
	State    string         `json:"state"`
	Attrs    map[string]any `json:"attrs"`
}

func NewFeed(url string, store *Store, log logrus.FieldLogger) *Feed {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Feed{url: url, store: store, log: log}
}

// Run connects and consumes events until ctx is cancelled or the feed is
// closed. Connection failures retry with capped backoff.
func (f *Feed) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.isClosed() {
			return nil
		}
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
		if err != nil {
			f.log.WithError(err).WithField("url", f.url).Warn("state feed dial failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second
		f.setConn(conn)
		f.consume(conn)
		f.setConn(nil)
	}
}

func (f *Feed) consume(conn *websocket.Conn) {
	for {
		var ev feedEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if !f.isClosed() {
				f.log.WithError(err).Debug("state feed read ended")
			}
			_ = conn.Close()
			return
		}
		if ev.EntityID == "" {
			continue
		}
		f.store.Set(ev.EntityID, core.Entity{State: ev.State, Attrs: ev.Attrs})
	}
}

// Close stops the feed. Idempotent.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}

func (f *Feed) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Feed) setConn(conn *websocket.Conn) {
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
}
