package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/models"
	"github.com/metgo3d/fieldsync/internal/outbox"
)

// photoPayload is the outbox payload for a deferred photo upload. The
// binary stays on disk; only the path and metadata are queued.
type photoPayload struct {
	Meta models.PhotoMeta `json:"meta"`
	Path string           `json:"path"`
}

// genericPayload wraps arbitrary deferred sync data with the item ID so
// the remote side can deduplicate replays.
type genericPayload struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

func marshalMeta(meta models.PhotoMeta) ([]byte, error) {
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal metadata: %v", common.ErrEncoding, err)
	}
	return b, nil
}

// NewPhotoItem wraps a failed or deferred photo upload into an outbox
// item. The item ID doubles as the upload's dedup ID.
func NewPhotoItem(meta models.PhotoMeta, path string) (outbox.Item, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	payload, err := json.Marshal(photoPayload{Meta: meta, Path: path})
	if err != nil {
		return outbox.Item{}, fmt.Errorf("%w: marshal photo payload: %v", common.ErrEncoding, err)
	}
	return outbox.Item{ID: meta.ID, Kind: outbox.KindPhotoUpload, Payload: payload}, nil
}

// NewLocationItem wraps a failed location ping into an outbox item.
func NewLocationItem(fix models.GeoFix) (outbox.Item, error) {
	payload, err := json.Marshal(fix)
	if err != nil {
		return outbox.Item{}, fmt.Errorf("%w: marshal location payload: %v", common.ErrEncoding, err)
	}
	return outbox.Item{Kind: outbox.KindLocationPing, Payload: payload}, nil
}

// NewGenericItem wraps any JSON-serializable value into a generic sync
// item.
func NewGenericItem(v any) (outbox.Item, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return outbox.Item{}, fmt.Errorf("%w: marshal sync payload: %v", common.ErrEncoding, err)
	}
	return outbox.Item{Kind: outbox.KindGenericSync, Payload: payload}, nil
}

// DrainOutbox attempts delivery for every queued item, once. Partial
// success is normal: synced items are removed, failed ones stay queued
// with their attempt count bumped.
func (g *Gateway) DrainOutbox(ctx context.Context) (outbox.Result, error) {
	return g.outbox.Drain(ctx, g.sendItem)
}

// sendItem re-issues the original network call for one borrowed item.
func (g *Gateway) sendItem(ctx context.Context, item outbox.Item) error {
	switch item.Kind {
	case outbox.KindPhotoUpload:
		var p photoPayload
		if err := json.Unmarshal(item.Payload, &p); err != nil {
			return fmt.Errorf("%w: photo payload: %v", common.ErrEncoding, err)
		}
		f, err := os.Open(p.Path)
		if err != nil {
			return fmt.Errorf("open queued photo: %w", err)
		}
		defer f.Close()
		return g.UploadPhoto(ctx, p.Meta, f)

	case outbox.KindLocationPing:
		var fix models.GeoFix
		if err := json.Unmarshal(item.Payload, &fix); err != nil {
			return fmt.Errorf("%w: location payload: %v", common.ErrEncoding, err)
		}
		return g.SendLocation(ctx, fix)

	case outbox.KindGenericSync:
		return g.do(ctx, http.MethodPost, "/sync/offline-data",
			genericPayload{ID: item.ID, Data: item.Payload}, nil)

	default:
		return fmt.Errorf("unknown outbox kind %q", item.Kind)
	}
}
