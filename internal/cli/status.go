package cli

import (
	"context"
	"fmt"
)

// status prints a one-screen summary: who is logged in, connectivity,
// pending outbox items and whether tracking is on.
func (a *App) status(ctx context.Context) {
	if u, ok := a.gateway.CurrentUser(ctx); ok {
		fmt.Printf("User:      %s <%s>\n", u.Name, u.Email)
	} else {
		fmt.Println("User:      not logged in")
	}

	mode := a.Mode
	if mode == "" {
		mode = ModeOffline
	}
	fmt.Printf("Mode:      %s\n", mode)

	if n, err := a.outbox.Len(ctx); err == nil {
		fmt.Printf("Pending:   %d item(s) awaiting sync\n", n)
	} else {
		fmt.Println("Pending:   unavailable")
	}

	if a.tracker.Running() {
		fmt.Println("Tracking:  on")
	} else {
		fmt.Println("Tracking:  off")
	}
}
