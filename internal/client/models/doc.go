// Package models defines the client-side data shapes exchanged with the
// Poputka backend: trips, the trip-creation payload, token pairs and the
// verified user identity.
package models
