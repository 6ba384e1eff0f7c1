package store

// Well-known storage keys. Any JSON-serializable structure is accepted per
// key; these constants only pin the names shared across components.
const (
	// Secure tier.
	KeySession = "session"

	// Plain tier.
	KeyDeviceID        = "device_id"
	KeyCurrentLocation = "current_location"
	KeyAppSettings     = "app_settings"
	KeyNotifications   = "notifications"

	// TTL cache entries.
	KeyCacheDashboard  = "cache_dashboard"
	KeyCacheWeather    = "cache_weather"
	KeyCacheIrrigation = "cache_irrigation"
)
