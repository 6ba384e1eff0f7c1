// Package models defines the data shapes exchanged between the local store,
// the sync gateway, and the remote METGO API.
package models

import (
	"fmt"
	"time"

	"github.com/metgo3d/fieldsync/internal/common"
)

// GeoFix is a single geolocation sample with accuracy metadata.
type GeoFix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Altitude  float64   `json:"altitude"`
	Speed     float64   `json:"speed"`
	Timestamp time.Time `json:"timestamp"`
}

// User is the account owning the current session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session holds the opaque bearer token and the authenticated user.
// It lives exclusively in the secure storage tier.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// DeviceInfo identifies the device on every outbound request and in
// uploaded record metadata.
type DeviceInfo struct {
	DeviceID      string `json:"deviceId"`
	DeviceName    string `json:"deviceName"`
	SystemName    string `json:"systemName"`
	SystemVersion string `json:"systemVersion"`
	AppVersion    string `json:"appVersion"`
	BuildNumber   string `json:"buildNumber"`
}

// UserAgent derives the User-Agent header value from the app version.
func (d DeviceInfo) UserAgent() string {
	v := d.AppVersion
	if v == "" {
		v = "dev"
	}
	return fmt.Sprintf("%s/%s", common.UserAgentPrefix, v)
}

// PhotoMeta is the JSON metadata part of a crop photo upload. The remote
// endpoint deduplicates by ID, so re-sending the same metadata is safe.
type PhotoMeta struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Location  *GeoFix    `json:"location,omitempty"`
	CropType  string     `json:"cropType"`
	Notes     string     `json:"notes"`
	Device    DeviceInfo `json:"deviceInfo"`
}

// Alert is a server-issued advisory shown in the app.
type Alert struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is a generated agronomic report reference.
type Report struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}
