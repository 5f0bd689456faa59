package client

import (
	"context"

	"github.com/dmitrijs2005/poputka/internal/client/models"
)

type Client interface {
	VerifyToken(ctx context.Context) (*models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	ListTrips(ctx context.Context, limit int, cursor string) ([]models.Trip, error)
	CreateTrip(ctx context.Context, trip models.TripCreate) error
	UserPhone(ctx context.Context, userID string) (string, error)
}

// TokenSource yields the access token to attach to outgoing requests.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}
