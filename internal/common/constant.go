// Package common contains shared constants and sentinel errors used across
// Poputka client components.
package common

// Keys of the on-device key-value store. The store accepts no other keys.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	// KeyPhoneNumber is reserved for the phone verification flow.
	KeyPhoneNumber = "phoneNumber"
)

// AuthorizationHeaderName is the HTTP header used to carry the access token
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName tags every outbound request with a fresh identifier.
const RequestIDHeaderName = "X-Request-ID"

// MinPhoneNumberLength gates the phone entry step.
const MinPhoneNumberLength = 10
