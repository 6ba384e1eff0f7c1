package location

import (
	"context"
	"sync"

	"github.com/metgo3d/fieldsync/internal/logging"
	"github.com/metgo3d/fieldsync/internal/models"
	"github.com/metgo3d/fieldsync/internal/store"
)

// Tracker is a long-lived background subscription to the location
// provider. Every update is written to the store asynchronously, so
// readers always see the last-written snapshot and never block on GPS.
type Tracker struct {
	provider Provider
	store    *store.Store
	log      logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTracker(provider Provider, st *store.Store, log logging.Logger) *Tracker {
	return &Tracker{provider: provider, store: st, log: log.With("component", "tracker")}
}

// Start begins mirroring position updates into the store. Calling Start
// on a running tracker is a no-op.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	updates, err := t.provider.Watch(ctx)
	if err != nil {
		cancel()
		return err
	}

	t.cancel = cancel
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)
		for fix := range updates {
			if err := t.store.SetPlain(ctx, store.KeyCurrentLocation, fix); err != nil {
				t.log.Warn(ctx, "failed to persist location update", "err", err)
			}
		}
	}()

	t.log.Info(ctx, "location tracking started")
	return nil
}

// Stop ends the subscription and waits for the mirror goroutine to exit.
// Stopping a stopped tracker is a no-op.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
	t.cancel = nil
	t.done = nil
}

// Running reports whether the subscription is active.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// CurrentFix returns the freshest available position: the provider's
// one-shot fetch when it succeeds, otherwise the last cached fix. The
// second return is false only when neither source has a position.
func (t *Tracker) CurrentFix(ctx context.Context) (models.GeoFix, bool) {
	fix, err := t.provider.Current(ctx)
	if err == nil {
		if serr := t.store.SetPlain(ctx, store.KeyCurrentLocation, fix); serr != nil {
			t.log.Warn(ctx, "failed to persist location fix", "err", serr)
		}
		return fix, true
	}

	var cached models.GeoFix
	found, gerr := t.store.GetPlain(ctx, store.KeyCurrentLocation, &cached)
	if gerr != nil || !found {
		return models.GeoFix{}, false
	}
	return cached, true
}
