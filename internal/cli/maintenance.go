package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// export dumps the plain store tier as indented JSON on stdout. Secrets
// and session data never appear here; they live in the encrypted tier.
func (a *App) export(ctx context.Context) {
	data, err := a.store.ExportAll(ctx)
	if err != nil {
		fmt.Println("Could not export local data.")
		a.log.Warn(ctx, "export failed", "err", err)
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		fmt.Println("Could not export local data.")
	}
}

// reset wipes all local data after confirmation: both store tiers, the
// cache entries within them, and the pending outbox.
func (a *App) reset(ctx context.Context) {
	ok, err := Confirm(a.reader, "This deletes all local data, including unsynced items. Continue?", os.Stdout)
	if err != nil || !ok {
		fmt.Println("Cancelled.")
		return
	}

	if err := a.store.ClearAll(ctx); err != nil {
		fmt.Println("Could not reset local data.")
		a.log.Error(ctx, "reset failed", "err", err)
		return
	}
	fmt.Println("Local data cleared.")
}
