// Package services contains the application services of the Poputka client.
//
// SessionManager decides whether the stored credentials still open a
// session, rotating them through the refresh endpoint when the access token
// is rejected. TripService wraps trip creation and the caller phone lookup.
// Both sit between the terminal UI and the transport in internal/client/client.
package services
