package common

const (
	// AuthorizationHeaderName carries the bearer token on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// DeviceIDHeaderName identifies the device on every request.
	DeviceIDHeaderName = "X-Device-ID"

	// UserAgentPrefix is combined with the app version to form the
	// User-Agent header.
	UserAgentPrefix = "METGO-FieldSync"
)
