// Package gateway owns the authenticated network client. Every call
// checks connectivity first, attaches the bearer credential when a session
// exists, and maps failures onto the shared error taxonomy. A small set of
// read endpoints additionally degrades to cached or placeholder data so
// the app stays usable offline.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/logging"
	"github.com/metgo3d/fieldsync/internal/models"
	"github.com/metgo3d/fieldsync/internal/netx"
	"github.com/metgo3d/fieldsync/internal/outbox"
	"github.com/metgo3d/fieldsync/internal/store"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultCacheTTL = 30 * time.Minute
)

// Config collects the collaborators a Gateway needs. Everything is passed
// in explicitly; the gateway keeps no global state.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	Device   models.DeviceInfo
	Store    *store.Store
	Cache    *store.Cache
	Outbox   *outbox.Outbox
	Checker  netx.Checker
	Logger   logging.Logger
}

type Gateway struct {
	base     string
	http     *http.Client
	device   models.DeviceInfo
	store    *store.Store
	cache    *store.Cache
	outbox   *outbox.Outbox
	checker  netx.Checker
	cacheTTL time.Duration
	log      logging.Logger
}

func New(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Gateway{
		base:     cfg.BaseURL,
		http:     &http.Client{Timeout: timeout},
		device:   cfg.Device,
		store:    cfg.Store,
		cache:    cfg.Cache,
		outbox:   cfg.Outbox,
		checker:  cfg.Checker,
		cacheTTL: ttl,
		log:      cfg.Logger.With("component", "gateway"),
	}
}

// Online reports current connectivity.
func (g *Gateway) Online(ctx context.Context) bool {
	return g.checker.Online(ctx)
}

// session loads the current session from the secure tier.
func (g *Gateway) session(ctx context.Context) (models.Session, bool) {
	var s models.Session
	found, err := g.store.GetSecure(ctx, store.KeySession, &s)
	if err != nil || !found || s.Token == "" {
		return models.Session{}, false
	}
	return s, true
}

// CurrentUser returns the authenticated user, if any.
func (g *Gateway) CurrentUser(ctx context.Context) (models.User, bool) {
	s, ok := g.session(ctx)
	return s.User, ok
}

type loginRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Device   models.DeviceInfo `json:"deviceInfo"`
}

// Login authenticates against the remote API and stores the returned
// session in the secure tier. The token is opaque to the client.
func (g *Gateway) Login(ctx context.Context, email, password string) (models.User, error) {
	var s models.Session
	err := g.do(ctx, http.MethodPost, "/auth/login",
		loginRequest{Email: email, Password: password, Device: g.device}, &s)
	if err != nil {
		return models.User{}, err
	}

	if err := g.store.SetSecure(ctx, store.KeySession, s); err != nil {
		return models.User{}, err
	}

	g.log.Info(ctx, "logged in", "user", s.User.Email)
	return s.User, nil
}

// Logout deletes the local session. No remote call is made; the token is
// simply forgotten.
func (g *Gateway) Logout(ctx context.Context) error {
	return g.store.RemoveSecure(ctx, store.KeySession)
}

// do performs one JSON round trip: connectivity check, auth attachment,
// status mapping, response decoding. out may be nil for calls whose body
// is irrelevant.
func (g *Gateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request: %v", common.ErrEncoding, err)
		}
		reader = bytes.NewReader(payload)
	}

	if !g.checker.Online(ctx) {
		return common.ErrOffline
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, g.base+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, g.base+path, nil)
	}
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return g.roundTrip(ctx, req, out)
}

// roundTrip finishes a prepared request: default headers, bearer token,
// transport, and status mapping. A 401 wipes the local session before
// surfacing ErrUnauthenticated.
func (g *Gateway) roundTrip(ctx context.Context, req *http.Request, out any) error {
	req.Header.Set(common.DeviceIDHeaderName, g.device.DeviceID)
	req.Header.Set("User-Agent", g.device.UserAgent())
	if s, ok := g.session(ctx); ok {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+s.Token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrOffline, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// Forced logout: the token is no longer honored.
		if rerr := g.store.RemoveSecure(ctx, store.KeySession); rerr != nil {
			g.log.Error(ctx, "failed to wipe session after 401", "err", rerr)
		}
		return common.ErrUnauthenticated
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s %s: %s", common.ErrRemote, req.Method, req.URL.Path, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", common.ErrRemote, err)
		}
	}
	return nil
}

// waitOnline blocks until the connectivity probe succeeds, backing off
// with a capped Fibonacci schedule. Returns the context error when the
// caller gives up first.
func (g *Gateway) waitOnline(ctx context.Context) error {
	b := retry.WithCappedDuration(30*time.Second, retry.NewFibonacci(500*time.Millisecond))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if !g.checker.Online(ctx) {
			return retry.RetryableError(common.ErrOffline)
		}
		return nil
	})
}

// AutoSync drains the outbox whenever connectivity is (re)established and
// then every interval while it lasts. Blocks until ctx is done.
func (g *Gateway) AutoSync(ctx context.Context, interval time.Duration) error {
	for {
		if err := g.waitOnline(ctx); err != nil {
			return err
		}

		if _, err := g.DrainOutbox(ctx); err != nil && !errors.Is(err, common.ErrDrainInProgress) {
			g.log.Warn(ctx, "outbox drain failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
