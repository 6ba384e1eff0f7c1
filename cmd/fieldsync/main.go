package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/metgo3d/fieldsync/internal/buildinfo"
	"github.com/metgo3d/fieldsync/internal/cli"
	"github.com/metgo3d/fieldsync/internal/config"
	"github.com/metgo3d/fieldsync/internal/cryptox"
	"github.com/metgo3d/fieldsync/internal/filex"
	"github.com/metgo3d/fieldsync/internal/gateway"
	"github.com/metgo3d/fieldsync/internal/location"
	"github.com/metgo3d/fieldsync/internal/logging"
	"github.com/metgo3d/fieldsync/internal/models"
	"github.com/metgo3d/fieldsync/internal/netx"
	"github.com/metgo3d/fieldsync/internal/outbox"
	"github.com/metgo3d/fieldsync/internal/store"

	_ "modernc.org/sqlite"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewDefault()

	dataDir, err := filex.EnsureSubDir("data")
	if err != nil {
		log.Fatalf("%v", err)
	}

	key, err := cryptox.LoadOrCreateDeviceKey(dataDir)
	if err != nil {
		log.Fatalf("%v", err)
	}

	dbPath := cfg.DatabasePath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(dataDir, dbPath)
	}
	db, err := store.Open(ctx, dbPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	st := store.New(db, key, logger)
	cache := store.NewCache(st, logger)
	ob := outbox.New(db, logger)

	device, err := deviceInfo(ctx, st)
	if err != nil {
		log.Fatalf("%v", err)
	}

	gw := gateway.New(gateway.Config{
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.RequestTimeout,
		CacheTTL: cfg.CacheTTL,
		Device:   device,
		Store:    st,
		Cache:    cache,
		Outbox:   ob,
		Checker:  netx.NewProbeChecker(cfg.BaseURL+"/health", cfg.RequestTimeout),
		Logger:   logger,
	})

	tracker := location.NewTracker(provider(cfg), st, logger)

	go func() {
		if err := gw.AutoSync(ctx, cfg.SyncInterval); err != nil {
			logger.Warn(ctx, "auto-sync stopped", "err", err)
		}
	}()

	app := cli.NewApp(cfg, gw, st, ob, tracker, logger)
	app.Run(ctx)

}

// deviceInfo loads the persistent device identity, minting an ID on the
// first run.
func deviceInfo(ctx context.Context, st *store.Store) (models.DeviceInfo, error) {
	var id string
	found, err := st.GetPlain(ctx, store.KeyDeviceID, &id)
	if err != nil {
		return models.DeviceInfo{}, err
	}
	if !found || id == "" {
		id = uuid.NewString()
		if err := st.SetPlain(ctx, store.KeyDeviceID, id); err != nil {
			return models.DeviceInfo{}, err
		}
	}

	return models.DeviceInfo{
		DeviceID:   id,
		DeviceName: "fieldsync-cli",
		AppVersion: buildinfo.Version,
	}, nil
}

// provider builds the location source: a pinned position when -fix is
// given, otherwise an unavailable provider that forces cached fixes.
func provider(cfg *config.Config) location.Provider {
	if cfg.StaticFix == "" {
		return location.Unavailable{}
	}

	parts := strings.Split(cfg.StaticFix, ",")
	if len(parts) != 2 {
		log.Printf("ignoring malformed -fix value %q", cfg.StaticFix)
		return location.Unavailable{}
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		log.Printf("ignoring malformed -fix value %q", cfg.StaticFix)
		return location.Unavailable{}
	}

	return &location.StaticProvider{
		Fix: models.GeoFix{Latitude: lat, Longitude: lon},
	}
}
