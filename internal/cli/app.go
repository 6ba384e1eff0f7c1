// Package cli implements the interactive FieldSync console. It wires the
// gateway, store, outbox and tracker into a small REPL and keeps a
// connectivity watcher running in the background.
package cli

import (
	"bufio"
	"context"
	"errors"
	"os"
	"time"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/config"
	"github.com/metgo3d/fieldsync/internal/gateway"
	"github.com/metgo3d/fieldsync/internal/location"
	"github.com/metgo3d/fieldsync/internal/logging"
	"github.com/metgo3d/fieldsync/internal/outbox"
	"github.com/metgo3d/fieldsync/internal/store"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config  *config.Config
	gateway *gateway.Gateway
	store   *store.Store
	outbox  *outbox.Outbox
	tracker *location.Tracker
	log     logging.Logger
	Mode    Mode
	reader  *bufio.Reader
}

// NewApp assembles the console from its collaborators. Nothing here is
// global; the caller owns the lifetimes.
func NewApp(cfg *config.Config, gw *gateway.Gateway, st *store.Store, ob *outbox.Outbox, tr *location.Tracker, log logging.Logger) *App {
	return &App{
		config:  cfg,
		gateway: gw,
		store:   st,
		outbox:  ob,
		tracker: tr,
		log:     log.With("component", "cli"),
		reader:  bufio.NewReader(os.Stdin),
	}
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.tracker.Stop()
	a.Root(ctx)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, ok := a.gateway.CurrentUser(ctx)
	return ok
}

// StartOnlineStatusWatcher probes connectivity on a fixed ticker and keeps
// App.Mode current. A transition back to online kicks an outbox drain so
// queued work ships as soon as the link returns.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			online := a.gateway.Online(probeCtx)
			cancel()

			if !online {
				if a.Mode == ModeOnline {
					a.setMode(ctx, ModeOffline)
				}
				continue
			}

			if a.Mode != ModeOnline {
				a.setMode(ctx, ModeOnline)
				if _, err := a.gateway.DrainOutbox(ctx); err != nil && !errors.Is(err, common.ErrDrainInProgress) {
					a.log.Warn(ctx, "drain on reconnect failed", "err", err)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
