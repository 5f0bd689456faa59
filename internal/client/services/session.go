package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/poputka/internal/client/client"
	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/client/store"
	"github.com/dmitrijs2005/poputka/internal/common"
	"github.com/dmitrijs2005/poputka/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// ErrSessionRejected is returned when freshly stored tokens do not open a
// session.
var ErrSessionRejected = errors.New("session rejected")

// SessionService defines the session operations for the CLI.
//
// Contract:
//   - CheckSession: true iff the stored pair verifies, or it fails to verify
//     and a rotation succeeds. A false result leaves storage untouched.
//   - Rotate: one refresh call, never retried, over the unauthenticated path.
//   - Login: persist a pair obtained from phone verification.
//   - Logout: overwrite both tokens with empty strings. No server call.
//   - Profile: the identity behind the current access token.
//   - Describe: which tokens are stored and, for JWTs, when they expire.
type SessionService interface {
	CheckSession(ctx context.Context) bool
	Rotate(ctx context.Context, refreshToken string) (*models.TokenPair, bool)
	Login(ctx context.Context, phoneNumber string, pair models.TokenPair) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
	Describe(ctx context.Context) (SessionInfo, error)
}

// SessionInfo summarises the stored credentials. Expiry fields are nil when
// the token is absent, not a JWT, or carries no exp claim.
type SessionInfo struct {
	HasAccess     bool
	HasRefresh    bool
	AccessExpiry  *time.Time
	RefreshExpiry *time.Time
}

// SessionManager is the SessionService backed by a token store and the API
// client.
type SessionManager struct {
	client client.Client
	tokens store.TokenStore
	log    logging.Logger
}

func NewSessionManager(c client.Client, tokens store.TokenStore, log logging.Logger) *SessionManager {
	if log == nil {
		log = logging.Nop()
	}
	return &SessionManager{client: c, tokens: tokens, log: log.With("component", "session")}
}

func (s *SessionManager) CheckSession(ctx context.Context) bool {
	pair, err := s.tokens.Tokens(ctx)
	if err != nil {
		s.log.Error(ctx, "read tokens", "err", err)
		return false
	}
	if !pair.Complete() {
		return false
	}

	if _, err = s.client.VerifyToken(ctx); err == nil {
		return true
	}
	s.log.Debug(ctx, "access token rejected, rotating", "err", err)

	rotated, ok := s.Rotate(ctx, pair.RefreshToken)
	if !ok {
		return false
	}

	if err := s.tokens.SetPair(ctx, *rotated); err != nil {
		s.log.Error(ctx, "persist rotated tokens", "err", err)
		return false
	}
	s.log.Info(ctx, "session rotated")
	return true
}

func (s *SessionManager) Rotate(ctx context.Context, refreshToken string) (*models.TokenPair, bool) {
	pair, err := s.client.RefreshToken(ctx, refreshToken)
	if err != nil {
		s.log.Warn(ctx, "token refresh failed", "err", err)
		return nil, false
	}
	return pair, true
}

func (s *SessionManager) Login(ctx context.Context, phoneNumber string, pair models.TokenPair) error {
	if len(phoneNumber) < common.MinPhoneNumberLength {
		return fmt.Errorf("%w: need at least %d characters", common.ErrInvalidPhone, common.MinPhoneNumberLength)
	}
	if !pair.Complete() {
		return fmt.Errorf("%w: access and refresh tokens are required", common.ErrMissingField)
	}
	if err := s.tokens.SetPair(ctx, pair); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}
	return nil
}

func (s *SessionManager) Logout(ctx context.Context) error {
	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}

func (s *SessionManager) Profile(ctx context.Context) (*models.User, error) {
	user, err := s.client.VerifyToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return user, nil
}

func (s *SessionManager) Describe(ctx context.Context) (SessionInfo, error) {
	pair, err := s.tokens.Tokens(ctx)
	if err != nil {
		return SessionInfo{}, err
	}
	return SessionInfo{
		HasAccess:     pair.AccessToken != "",
		HasRefresh:    pair.RefreshToken != "",
		AccessExpiry:  tokenExpiry(pair.AccessToken),
		RefreshExpiry: tokenExpiry(pair.RefreshToken),
	}, nil
}

// tokenExpiry reads the exp claim without verifying the signature. The
// client holds no key; the value is for display only.
func tokenExpiry(token string) *time.Time {
	if token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

// IsUnauthorized reports whether err means the session is no longer valid.
func IsUnauthorized(err error) bool {
	return errors.Is(err, client.ErrUnauthorized)
}
