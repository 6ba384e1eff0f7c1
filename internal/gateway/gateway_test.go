package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/cryptox"
	"github.com/metgo3d/fieldsync/internal/logging"
	"github.com/metgo3d/fieldsync/internal/models"
	"github.com/metgo3d/fieldsync/internal/netx"
	"github.com/metgo3d/fieldsync/internal/outbox"
	"github.com/metgo3d/fieldsync/internal/store"

	_ "modernc.org/sqlite"
)

type env struct {
	gateway *Gateway
	store   *store.Store
	outbox  *outbox.Outbox
	online  *atomic.Bool
}

// setupGateway wires a gateway over an in-memory database and the given
// test server handler. Connectivity is controlled via the returned flag.
func setupGateway(t *testing.T, handler http.Handler) *env {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := store.Open(context.Background(), dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	logger := logging.NewDefault()
	st := store.New(db, cryptox.GenerateRandBytes(cryptox.KeySize), logger)
	cache := store.NewCache(st, logger)
	ob := outbox.New(db, logger)

	online := &atomic.Bool{}
	online.Store(true)

	gw := New(Config{
		BaseURL:  srv.URL,
		Timeout:  5 * time.Second,
		CacheTTL: time.Minute,
		Device:   models.DeviceInfo{DeviceID: "dev-1", AppVersion: "1.0.0"},
		Store:    st,
		Cache:    cache,
		Outbox:   ob,
		Checker:  netx.CheckerFunc(func(ctx context.Context) bool { return online.Load() }),
		Logger:   logger,
	})

	return &env{gateway: gw, store: st, outbox: ob, online: online}
}

func loginHandler(mux *http.ServeMux) {
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(models.Session{
			Token: "token-abc",
			User:  models.User{ID: "u1", Email: req.Email, Name: "Ana"},
		})
	})
}

func TestLogin_StoresSessionAndAttachesBearer(t *testing.T) {
	mux := http.NewServeMux()
	loginHandler(mux)

	var gotAuth, gotDevice string
	mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotDevice = r.Header.Get("X-Device-ID")
		_ = json.NewEncoder(w).Encode([]models.Alert{})
	})

	e := setupGateway(t, mux)
	ctx := context.Background()

	user, err := e.gateway.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	got, ok := e.gateway.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", got.Email)

	_, err = e.gateway.Alerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Equal(t, "dev-1", gotDevice)
}

func TestLogin_BadCredentials(t *testing.T) {
	mux := http.NewServeMux()
	loginHandler(mux)
	e := setupGateway(t, mux)

	_, err := e.gateway.Login(context.Background(), "ana@example.com", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	_, ok := e.gateway.CurrentUser(context.Background())
	assert.False(t, ok)
}

func TestLogin_RefusedOffline(t *testing.T) {
	e := setupGateway(t, http.NewServeMux())
	e.online.Store(false)

	_, err := e.gateway.Login(context.Background(), "ana@example.com", "secret")
	require.ErrorIs(t, err, common.ErrOffline)
}

func TestUnauthorized_WipesSession(t *testing.T) {
	mux := http.NewServeMux()
	loginHandler(mux)

	var sawAuth []string
	mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		sawAuth = append(sawAuth, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	})

	e := setupGateway(t, mux)
	ctx := context.Background()

	_, err := e.gateway.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)

	_, err = e.gateway.Alerts(ctx)
	require.ErrorIs(t, err, common.ErrUnauthenticated)

	// the rejected token is gone: no user and no header on the next call
	_, ok := e.gateway.CurrentUser(ctx)
	assert.False(t, ok)

	_, _ = e.gateway.Alerts(ctx)
	require.Len(t, sawAuth, 2)
	assert.Equal(t, "Bearer token-abc", sawAuth[0])
	assert.Empty(t, sawAuth[1])
}

func TestLogout_ForgetsSession(t *testing.T) {
	mux := http.NewServeMux()
	loginHandler(mux)
	e := setupGateway(t, mux)
	ctx := context.Background()

	_, err := e.gateway.Login(ctx, "ana@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, e.gateway.Logout(ctx))
	_, ok := e.gateway.CurrentUser(ctx)
	assert.False(t, ok)
}

func TestDashboard_NetworkThenCacheThenFallback(t *testing.T) {
	var requests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/dashboard/data", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_ = json.NewEncoder(w).Encode(models.DashboardSnapshot{
			Weather: models.WeatherSummary{Temperature: 30.1},
		})
	})

	e := setupGateway(t, mux)
	ctx := context.Background()

	// online: served from the network and cached
	d, err := e.gateway.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30.1, d.Weather.Temperature)

	// offline: the cached copy is served, no request made
	e.online.Store(false)
	d, err = e.gateway.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30.1, d.Weather.Temperature)
	assert.Equal(t, int32(1), requests.Load())
}

func TestDashboard_ColdStartOfflineServesFallback(t *testing.T) {
	e := setupGateway(t, http.NewServeMux())
	e.online.Store(false)

	d, err := e.gateway.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 22.5, d.Weather.Temperature)
	assert.NotEmpty(t, d.Alerts)
}

func TestDashboard_AuthFailureNotMaskedByFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dashboard/data", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	e := setupGateway(t, mux)

	_, err := e.gateway.Dashboard(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestWeather_FallbackNamesDefaultStation(t *testing.T) {
	e := setupGateway(t, http.NewServeMux())
	e.online.Store(false)

	report, err := e.gateway.Weather(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "quillota_centro", report.Station)
}

func TestStationWeather_SurfacesErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/weather/la_cruz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	e := setupGateway(t, mux)

	_, err := e.gateway.StationWeather(context.Background(), "la_cruz")
	require.ErrorIs(t, err, common.ErrRemote)

	e.online.Store(false)
	_, err = e.gateway.StationWeather(context.Background(), "la_cruz")
	require.ErrorIs(t, err, common.ErrOffline)
}

func TestReports_QueryParameters(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/reports", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]models.Report{{ID: "r1", Type: "weekly"}})
	})

	e := setupGateway(t, mux)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	reports, err := e.gateway.Reports(context.Background(), "weekly", from, to)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	assert.Contains(t, gotQuery, "type=weekly")
	assert.Contains(t, gotQuery, "startDate=2026-08-01")
	assert.Contains(t, gotQuery, "endDate=2026-08-31")
}

func TestSendLocation_FillsTimestamp(t *testing.T) {
	var got struct {
		Latitude  float64           `json:"latitude"`
		Timestamp time.Time         `json:"timestamp"`
		Device    models.DeviceInfo `json:"deviceInfo"`
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/location/update", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	})

	e := setupGateway(t, mux)

	err := e.gateway.SendLocation(context.Background(), models.GeoFix{Latitude: -32.88})
	require.NoError(t, err)

	assert.Equal(t, -32.88, got.Latitude)
	assert.False(t, got.Timestamp.IsZero())
	assert.Equal(t, "dev-1", got.Device.DeviceID)
}

func TestUploadPhoto_MultipartLayout(t *testing.T) {
	var (
		gotFile []byte
		gotMeta models.PhotoMeta
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/photos/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer f.Close()
		assert.Contains(t, header.Filename, "crop_photo_")

		buf := make([]byte, header.Size)
		_, _ = f.Read(buf)
		gotFile = buf

		require.NoError(t, json.Unmarshal([]byte(r.FormValue("metadata")), &gotMeta))
		w.WriteHeader(http.StatusCreated)
	})

	e := setupGateway(t, mux)

	meta := models.PhotoMeta{CropType: "Palto", Notes: "hoja amarilla"}
	err := e.gateway.UploadPhoto(context.Background(), meta, strings.NewReader("jpegbytes"))
	require.NoError(t, err)

	assert.Equal(t, "jpegbytes", string(gotFile))
	assert.Equal(t, "Palto", gotMeta.CropType)
	assert.NotEmpty(t, gotMeta.ID)
	assert.Equal(t, "dev-1", gotMeta.Device.DeviceID)
}
