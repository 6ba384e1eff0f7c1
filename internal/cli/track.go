package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/gateway"
)

// track toggles background position tracking. Turning it on also sends
// one immediate ping so the server sees the device right away; if the
// ping cannot be delivered it is queued instead.
func (a *App) track(ctx context.Context, arg string) {
	switch arg {
	case "on":
		if err := a.tracker.Start(ctx); err != nil {
			fmt.Println("Location unavailable.")
			a.log.Warn(ctx, "tracker start failed", "err", err)
			return
		}
		fmt.Println("Tracking on.")
		a.ping(ctx)

	case "off":
		a.tracker.Stop()
		fmt.Println("Tracking off.")

	default:
		fmt.Println("Usage: track on|off")
	}
}

// ping sends the current position, queueing it on delivery failure.
func (a *App) ping(ctx context.Context) {
	fix, ok := a.tracker.CurrentFix(ctx)
	if !ok {
		return
	}

	err := a.gateway.SendLocation(ctx, fix)
	if err == nil || errors.Is(err, common.ErrUnauthenticated) {
		return
	}

	item, ierr := gateway.NewLocationItem(fix)
	if ierr != nil {
		a.log.Error(ctx, "location payload not serializable", "err", ierr)
		return
	}
	if _, qerr := a.outbox.Enqueue(ctx, item); qerr != nil {
		a.log.Error(ctx, "location enqueue failed", "err", qerr)
	}
}
