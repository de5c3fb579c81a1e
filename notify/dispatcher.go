// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/bookclub/auth"
	"github.com/danielhkuo/bookclub/models"
	"github.com/danielhkuo/bookclub/store"
)

const deliverTimeout = 10 * time.Second

// Dispatcher writes club broadcasts to member inboxes on a background
// worker. Dispatch never blocks the caller and delivery errors are only
// logged.
type Dispatcher struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(st *store.Store, logger *zap.Logger, queueSize int) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	d := &Dispatcher{
		store:  st,
		logger: logger,
		now:    time.Now,
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch queues e. A full queue or a closed dispatcher drops it.
func (d *Dispatcher) Dispatch(e Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("notification dropped after shutdown",
			zap.String("type", e.Type), zap.String("club_id", e.ClubID))
		return
	}

	select {
	case d.queue <- e:
	default:
		d.logger.Warn("notification queue full, dropping event",
			zap.String("type", e.Type), zap.String("club_id", e.ClubID))
	}
}

// Close stops intake and waits for queued events to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for e := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		n, err := d.deliver(ctx, e)
		cancel()
		if err != nil {
			d.logger.Error("failed to deliver notification",
				zap.String("type", e.Type),
				zap.String("club_id", e.ClubID),
				zap.Error(err))
			continue
		}
		d.logger.Debug("notification delivered",
			zap.String("type", e.Type),
			zap.String("club_id", e.ClubID),
			zap.Int("recipients", n))
	}
}

// deliver fans e out to the club's members in one transaction.
func (d *Dispatcher) deliver(ctx context.Context, e Event) (int, error) {
	memberIDs, err := d.store.ClubMemberIDs(ctx, e.ClubID)
	if err != nil {
		return 0, err
	}

	data := make(map[string]any, len(e.Data)+1)
	for k, v := range e.Data {
		data[k] = v
	}
	data["clubId"] = e.ClubID

	now := d.now().UTC()
	var batch []models.Notification
	for _, userID := range memberIDs {
		if userID == e.ExcludeUserID {
			continue
		}
		batch = append(batch, models.Notification{
			ID:        auth.NewID(),
			UserID:    userID,
			Type:      e.Type,
			Title:     e.Title,
			Message:   e.Message,
			Data:      data,
			CreatedAt: now,
		})
	}
	if len(batch) == 0 {
		return 0, nil
	}

	err = d.store.InTx(ctx, func(q *store.Queries) error {
		return q.InsertNotifications(ctx, batch)
	})
	if err != nil {
		return 0, err
	}
	return len(batch), nil
}
