package location

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metgo3d/fieldsync/internal/cryptox"
	"github.com/metgo3d/fieldsync/internal/logging"
	"github.com/metgo3d/fieldsync/internal/models"
	"github.com/metgo3d/fieldsync/internal/store"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := store.Open(context.Background(), dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return store.New(db, cryptox.GenerateRandBytes(cryptox.KeySize), logging.NewDefault())
}

func TestStaticProvider_Current(t *testing.T) {
	p := &StaticProvider{Fix: models.GeoFix{Latitude: -32.88, Longitude: -71.25}}

	fix, err := p.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -32.88, fix.Latitude)
	assert.False(t, fix.Timestamp.IsZero())
}

func TestUnavailableProvider(t *testing.T) {
	p := Unavailable{}

	_, err := p.Current(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = p.Watch(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCurrentFix_PersistsProviderResult(t *testing.T) {
	st := setupStore(t)
	tr := NewTracker(&StaticProvider{Fix: models.GeoFix{Latitude: -32.88}}, st, logging.NewDefault())
	ctx := context.Background()

	fix, ok := tr.CurrentFix(ctx)
	require.True(t, ok)
	assert.Equal(t, -32.88, fix.Latitude)

	// the fix was mirrored into the store
	var cached models.GeoFix
	found, err := st.GetPlain(ctx, store.KeyCurrentLocation, &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, -32.88, cached.Latitude)
}

func TestCurrentFix_FallsBackToCachedFix(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetPlain(ctx, store.KeyCurrentLocation,
		models.GeoFix{Latitude: -32.80, Longitude: -71.20}))

	tr := NewTracker(Unavailable{}, st, logging.NewDefault())
	fix, ok := tr.CurrentFix(ctx)
	require.True(t, ok)
	assert.Equal(t, -32.80, fix.Latitude)
}

func TestCurrentFix_NoSourceAtAll(t *testing.T) {
	st := setupStore(t)
	tr := NewTracker(Unavailable{}, st, logging.NewDefault())

	_, ok := tr.CurrentFix(context.Background())
	assert.False(t, ok)
}

func TestTracker_StartMirrorsUpdatesAndStops(t *testing.T) {
	st := setupStore(t)
	provider := &StaticProvider{
		Fix:      models.GeoFix{Latitude: -32.85, Longitude: -71.22},
		Interval: 10 * time.Millisecond,
	}
	tr := NewTracker(provider, st, logging.NewDefault())
	ctx := context.Background()

	require.NoError(t, tr.Start(ctx))
	require.True(t, tr.Running())
	require.NoError(t, tr.Start(ctx), "second start is a no-op")

	// wait for at least one mirrored update
	require.Eventually(t, func() bool {
		var fix models.GeoFix
		found, err := st.GetPlain(ctx, store.KeyCurrentLocation, &fix)
		return err == nil && found && fix.Latitude == -32.85
	}, 2*time.Second, 10*time.Millisecond)

	tr.Stop()
	assert.False(t, tr.Running())
	tr.Stop() // idempotent
}

func TestTracker_StartFailsWithoutProvider(t *testing.T) {
	st := setupStore(t)
	tr := NewTracker(Unavailable{}, st, logging.NewDefault())

	err := tr.Start(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, tr.Running())
}
