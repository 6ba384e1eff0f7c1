// Package outbox implements the durable queue of not-yet-confirmed
// mutations awaiting network delivery. Items are drained in FIFO order;
// delivery is at-least-once, so the remote side deduplicates by item ID.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/logging"
)

// Kind classifies a pending mutation so the drain can re-issue the right
// network call.
type Kind string

const (
	KindPhotoUpload  Kind = "photo_upload"
	KindLocationPing Kind = "location_ping"
	KindGenericSync  Kind = "generic_sync"
)

// Item is one pending mutation. It is owned by the Outbox; the drain
// borrows it for a single delivery attempt.
type Item struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
	Attempts  int             `json:"attempts"`
}

// SendFunc attempts delivery of one item. It must be idempotent from the
// remote system's point of view: a crash between remote accept and local
// delete causes a redelivery under the same ID.
type SendFunc func(ctx context.Context, item Item) error

// Result summarizes one drain pass.
type Result struct {
	Sent   int
	Failed int
}

// Outbox persists items in the shared local database. Drain is
// single-flight: concurrent drains would race on attempts counters.
type Outbox struct {
	db       *sql.DB
	log      logging.Logger
	now      func() time.Time
	draining atomic.Bool
}

func New(db *sql.DB, log logging.Logger) *Outbox {
	return &Outbox{db: db, now: time.Now, log: log.With("component", "outbox")}
}

// Enqueue appends item to the queue, assigning a fresh ID when absent and
// resetting attempts to zero. Enqueue order is preserved across restarts.
func (o *Outbox) Enqueue(ctx context.Context, item Item) (Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = o.now()
	}
	item.Attempts = 0

	_, err := o.db.ExecContext(ctx, `
		INSERT INTO outbox (id, kind, payload, created_at, attempts)
		VALUES (?, ?, ?, ?, 0)
	`, item.ID, string(item.Kind), []byte(item.Payload), item.CreatedAt.UnixMilli())
	if err != nil {
		return Item{}, fmt.Errorf("%w: enqueue: %v", common.ErrStoreUnavailable, err)
	}

	o.log.Debug(ctx, "item enqueued", "id", item.ID, "kind", item.Kind)
	return item, nil
}

// List returns all pending items in drain order.
func (o *Outbox) List(ctx context.Context) ([]Item, error) {
	rows, err := o.db.QueryContext(ctx, `
		SELECT id, kind, payload, created_at, attempts FROM outbox ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", common.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		var kind string
		var createdAt int64
		if err := rows.Scan(&item.ID, &kind, (*[]byte)(&item.Payload), &createdAt, &item.Attempts); err != nil {
			return nil, fmt.Errorf("%w: list scan: %v", common.ErrStoreUnavailable, err)
		}
		item.Kind = Kind(kind)
		item.CreatedAt = time.UnixMilli(createdAt)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list rows: %v", common.ErrStoreUnavailable, err)
	}
	return items, nil
}

// Len returns the number of pending items.
func (o *Outbox) Len(ctx context.Context) (int, error) {
	var n int
	if err := o.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: len: %v", common.ErrStoreUnavailable, err)
	}
	return n, nil
}

// Drain attempts delivery for every currently queued item, once, in FIFO
// order. Successful items are deleted; failed items get attempts
// incremented and the drain moves on — one bad item never blocks later
// ones. Re-entrant calls fail with common.ErrDrainInProgress.
//
// Once started, a drain runs to completion even if the caller's context is
// cancelled: abandoning an in-flight item would leave it in a "maybe sent"
// state without recording the attempt.
func (o *Outbox) Drain(ctx context.Context, send SendFunc) (Result, error) {
	if !o.draining.CompareAndSwap(false, true) {
		return Result{}, common.ErrDrainInProgress
	}
	defer o.draining.Store(false)

	items, err := o.List(ctx)
	if err != nil {
		return Result{}, err
	}

	// Detach from caller cancellation for the delivery loop.
	ctx = context.WithoutCancel(ctx)

	var res Result
	for _, item := range items {
		if err := send(ctx, item); err != nil {
			res.Failed++
			o.log.Warn(ctx, "delivery failed", "id", item.ID, "kind", item.Kind,
				"attempts", item.Attempts+1, "err", err)
			if _, uerr := o.db.ExecContext(ctx,
				`UPDATE outbox SET attempts = attempts + 1 WHERE id = ?`, item.ID); uerr != nil {
				o.log.Error(ctx, "failed to record attempt", "id", item.ID, "err", uerr)
			}
			continue
		}

		res.Sent++
		if _, derr := o.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = ?`, item.ID); derr != nil {
			// The remote accepted the item; it will be redelivered and
			// deduplicated by ID on the next drain.
			o.log.Error(ctx, "failed to delete delivered item", "id", item.ID, "err", derr)
		}
	}

	o.log.Info(ctx, "drain finished", "sent", res.Sent, "failed", res.Failed)
	return res, nil
}

// DropExhausted removes items that have failed more than max attempts.
// The outbox itself never caps attempts; this is the hook for a
// caller-supplied policy.
func (o *Outbox) DropExhausted(ctx context.Context, max int) (int, error) {
	res, err := o.db.ExecContext(ctx, `DELETE FROM outbox WHERE attempts > ?`, max)
	if err != nil {
		return 0, fmt.Errorf("%w: drop exhausted: %v", common.ErrStoreUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: drop exhausted: %v", common.ErrStoreUnavailable, err)
	}
	return int(n), nil
}
