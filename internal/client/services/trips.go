package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/poputka/internal/client/client"
	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/logging"
)

var (
	ErrCreateFailed = errors.New("failed to create trip")
	ErrNoPhone      = errors.New("no phone number for user")
)

type TripService interface {
	Create(ctx context.Context, trip models.TripCreate) error
	CallerPhone(ctx context.Context, userID string) (string, error)
}

type tripService struct {
	client client.Client
	log    logging.Logger
}

func NewTripService(c client.Client, log logging.Logger) TripService {
	if log == nil {
		log = logging.Nop()
	}
	return &tripService{client: c, log: log.With("component", "trips")}
}

// Create submits the trip with a single request. Failures are wrapped in
// ErrCreateFailed.
func (s *tripService) Create(ctx context.Context, trip models.TripCreate) error {
	if err := s.client.CreateTrip(ctx, trip); err != nil {
		s.log.Warn(ctx, "create trip failed", "err", err)
		return fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	s.log.Info(ctx, "trip created", "origin", trip.Origin, "destination", trip.Destination)
	return nil
}

// CallerPhone looks up the poster's phone number. Every call hits the
// backend.
func (s *tripService) CallerPhone(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: empty user id", ErrNoPhone)
	}
	phone, err := s.client.UserPhone(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("phone lookup: %w", err)
	}
	if phone == "" {
		return "", ErrNoPhone
	}
	return phone, nil
}
