package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/gateway"
	"github.com/metgo3d/fieldsync/internal/models"
)

// photo uploads a crop photo with its metadata. When the upload cannot be
// delivered the photo is queued in the outbox and ships on the next
// drain; only a failure to queue is reported as an error to the user.
func (a *App) photo(ctx context.Context, path, crop, notes string) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Println("Cannot open photo:", path)
		return
	}
	defer f.Close()

	meta := models.PhotoMeta{
		Timestamp: time.Now(),
		CropType:  crop,
		Notes:     notes,
	}
	if fix, ok := a.tracker.CurrentFix(ctx); ok {
		meta.Location = &fix
	}

	item, err := gateway.NewPhotoItem(meta, path)
	if err != nil {
		fmt.Println("Could not save the photo.")
		a.log.Error(ctx, "photo metadata not serializable", "err", err)
		return
	}
	// The item carries the dedup ID; reuse it for the direct attempt so a
	// queued replay is a no-op on the server.
	meta.ID = item.ID

	err = a.gateway.UploadPhoto(ctx, meta, f)
	if err == nil {
		fmt.Println("Photo uploaded.")
		return
	}
	if errors.Is(err, common.ErrUnauthenticated) {
		fmt.Println("Session expired, please log in again.")
		return
	}

	if _, qerr := a.outbox.Enqueue(ctx, item); qerr != nil {
		fmt.Println("Could not save the photo.")
		a.log.Error(ctx, "photo enqueue failed", "err", qerr)
		return
	}
	fmt.Println("Offline: photo queued for sync.")
}
