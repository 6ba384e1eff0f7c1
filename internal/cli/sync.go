package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/metgo3d/fieldsync/internal/common"
)

// sync drains the outbox once and reports the outcome.
func (a *App) sync(ctx context.Context) {
	res, err := a.gateway.DrainOutbox(ctx)
	if err != nil {
		if errors.Is(err, common.ErrDrainInProgress) {
			fmt.Println("A sync is already running.")
			return
		}
		fmt.Println("Could not sync.")
		a.log.Warn(ctx, "manual drain failed", "err", err)
		return
	}

	if res.Sent == 0 && res.Failed == 0 {
		fmt.Println("Nothing to sync.")
		return
	}
	fmt.Printf("Synced %d item(s), %d still pending.\n", res.Sent, res.Failed)
}
