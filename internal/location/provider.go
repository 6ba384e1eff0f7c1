// Package location defines the contract with the platform location
// provider and a tracker that mirrors position updates into the store.
package location

import (
	"context"
	"errors"
	"time"

	"github.com/metgo3d/fieldsync/internal/models"
)

// ErrUnavailable is returned when no position can be obtained (permission
// denied, no signal). Callers fall back to the last cached fix.
var ErrUnavailable = errors.New("location unavailable")

// Provider supplies GeoFix samples: a one-shot fetch and a subscribable
// stream. The surrounding app implements it over the platform APIs.
type Provider interface {
	// Current returns the device position right now.
	Current(ctx context.Context) (models.GeoFix, error)

	// Watch streams position updates until ctx is done. The returned
	// channel is closed when the subscription ends.
	Watch(ctx context.Context) (<-chan models.GeoFix, error)
}

// StaticProvider reports a fixed position, emitting it on Watch at the
// given interval. Used for bench setups and tests.
type StaticProvider struct {
	Fix      models.GeoFix
	Interval time.Duration
}

func (p *StaticProvider) Current(ctx context.Context) (models.GeoFix, error) {
	fix := p.Fix
	fix.Timestamp = time.Now()
	return fix, nil
}

func (p *StaticProvider) Watch(ctx context.Context) (<-chan models.GeoFix, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ch := make(chan models.GeoFix)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fix, _ := p.Current(ctx)
				select {
				case ch <- fix:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

// Unavailable is a Provider for devices without location access.
type Unavailable struct{}

func (Unavailable) Current(ctx context.Context) (models.GeoFix, error) {
	return models.GeoFix{}, ErrUnavailable
}

func (Unavailable) Watch(ctx context.Context) (<-chan models.GeoFix, error) {
	return nil, ErrUnavailable
}
