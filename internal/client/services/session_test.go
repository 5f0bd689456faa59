package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/poputka/internal/client/client"
	"github.com/dmitrijs2005/poputka/internal/client/models"
	"github.com/dmitrijs2005/poputka/internal/client/store"
	"github.com/dmitrijs2005/poputka/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupStore(t *testing.T) (*store.SQLiteTokenStore, *sql.DB) {
	t.Helper()
	db, err := store.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return store.NewSQLiteTokenStore(db, store.NewDeviceSealer([]byte("test-device-secret"))), db
}

func seed(t *testing.T, s store.TokenStore, access, refresh string) {
	t.Helper()
	require.NoError(t, s.SetPair(context.Background(), models.TokenPair{AccessToken: access, RefreshToken: refresh}))
}

func stored(t *testing.T, s store.TokenStore) models.TokenPair {
	t.Helper()
	pair, err := s.Tokens(context.Background())
	require.NoError(t, err)
	return pair
}

// ---- fake client ----

type fakeClient struct {
	VerifyUser *models.User
	VerifyErr  error

	RefreshRet *models.TokenPair
	RefreshErr error

	CreateErr error

	PhoneRet string
	PhoneErr error

	VerifyCalls      int
	RefreshCalls     int
	LastRefreshToken string
	CreateCalls      int
	LastCreate       models.TripCreate
	PhoneCalls       int
	LastPhoneUser    string
}

func (f *fakeClient) VerifyToken(ctx context.Context) (*models.User, error) {
	f.VerifyCalls++
	return f.VerifyUser, f.VerifyErr
}

func (f *fakeClient) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	f.RefreshCalls++
	f.LastRefreshToken = refreshToken
	return f.RefreshRet, f.RefreshErr
}

func (f *fakeClient) ListTrips(ctx context.Context, limit int, cursor string) ([]models.Trip, error) {
	return nil, nil
}

func (f *fakeClient) CreateTrip(ctx context.Context, trip models.TripCreate) error {
	f.CreateCalls++
	f.LastCreate = trip
	return f.CreateErr
}

func (f *fakeClient) UserPhone(ctx context.Context, userID string) (string, error) {
	f.PhoneCalls++
	f.LastPhoneUser = userID
	return f.PhoneRet, f.PhoneErr
}

// ---- CheckSession ----

func TestCheckSession_MissingTokens(t *testing.T) {
	for name, pair := range map[string][2]string{
		"both empty":   {"", ""},
		"only access":  {"A", ""},
		"only refresh": {"", "R"},
	} {
		t.Run(name, func(t *testing.T) {
			s, _ := setupStore(t)
			seed(t, s, pair[0], pair[1])
			fc := &fakeClient{}

			require.False(t, NewSessionManager(fc, s, nil).CheckSession(context.Background()))
			require.Zero(t, fc.VerifyCalls, "no network call without a full pair")
			require.Zero(t, fc.RefreshCalls)
		})
	}
}

func TestCheckSession_VerifyOK(t *testing.T) {
	s, _ := setupStore(t)
	seed(t, s, "A", "R")
	fc := &fakeClient{VerifyUser: &models.User{Name: "Aigerim"}}

	require.True(t, NewSessionManager(fc, s, nil).CheckSession(context.Background()))
	require.Zero(t, fc.RefreshCalls)
	require.Equal(t, models.TokenPair{AccessToken: "A", RefreshToken: "R"}, stored(t, s))
}

func TestCheckSession_RotatesOnRejectedAccessToken(t *testing.T) {
	s, _ := setupStore(t)
	seed(t, s, "A", "R")
	fc := &fakeClient{
		VerifyErr:  client.ErrUnauthorized,
		RefreshRet: &models.TokenPair{AccessToken: "A2", RefreshToken: "R2"},
	}

	require.True(t, NewSessionManager(fc, s, nil).CheckSession(context.Background()))
	require.Equal(t, 1, fc.VerifyCalls)
	require.Equal(t, 1, fc.RefreshCalls)
	require.Equal(t, "R", fc.LastRefreshToken)
	require.Equal(t, models.TokenPair{AccessToken: "A2", RefreshToken: "R2"}, stored(t, s))
}

func TestCheckSession_FailedRotationLeavesStorageUnchanged(t *testing.T) {
	for name, verifyErr := range map[string]error{
		"unauthorized": client.ErrUnauthorized,
		"network":      client.ErrUnavailable,
	} {
		t.Run(name, func(t *testing.T) {
			s, _ := setupStore(t)
			seed(t, s, "A", "R")
			fc := &fakeClient{VerifyErr: verifyErr, RefreshErr: client.ErrUnauthorized}

			require.False(t, NewSessionManager(fc, s, nil).CheckSession(context.Background()))
			require.Equal(t, 1, fc.RefreshCalls, "refresh is attempted exactly once")
			require.Equal(t, models.TokenPair{AccessToken: "A", RefreshToken: "R"}, stored(t, s))
		})
	}
}

func TestCheckSession_PersistFailureReportsFalse(t *testing.T) {
	s, db := setupStore(t)
	seed(t, s, "A", "R")
	fc := &fakeClient{
		VerifyErr:  client.ErrUnauthorized,
		RefreshRet: &models.TokenPair{AccessToken: "A2", RefreshToken: "R2"},
	}

	_, err := db.Exec(`CREATE TRIGGER no_refresh BEFORE UPDATE ON kv WHEN NEW.key = 'refreshToken'
		BEGIN SELECT RAISE(ABORT, 'read-only'); END`)
	require.NoError(t, err)

	require.False(t, NewSessionManager(fc, s, nil).CheckSession(context.Background()))
	require.Equal(t, models.TokenPair{AccessToken: "A", RefreshToken: "R"}, stored(t, s),
		"a half-written rotation is rolled back")
}

// ---- Rotate / Login / Logout / Profile ----

func TestRotate(t *testing.T) {
	s, _ := setupStore(t)
	fc := &fakeClient{RefreshRet: &models.TokenPair{AccessToken: "A2", RefreshToken: "R2"}}
	m := NewSessionManager(fc, s, nil)

	pair, ok := m.Rotate(context.Background(), "R1")
	require.True(t, ok)
	require.Equal(t, "A2", pair.AccessToken)
	require.Equal(t, models.TokenPair{}, stored(t, s), "Rotate itself does not persist")

	fc.RefreshRet, fc.RefreshErr = nil, errors.New("bad body")
	pair, ok = m.Rotate(context.Background(), "R1")
	require.False(t, ok)
	require.Nil(t, pair)
}

func TestLogin(t *testing.T) {
	s, _ := setupStore(t)
	m := NewSessionManager(&fakeClient{}, s, nil)
	ctx := context.Background()
	pair := models.TokenPair{AccessToken: "A", RefreshToken: "R"}

	require.ErrorIs(t, m.Login(ctx, "+99655", pair), common.ErrInvalidPhone)
	require.ErrorIs(t, m.Login(ctx, "+996555123456", models.TokenPair{AccessToken: "A"}), common.ErrMissingField)
	require.Equal(t, models.TokenPair{}, stored(t, s))

	require.NoError(t, m.Login(ctx, "+996555123456", pair))
	require.Equal(t, pair, stored(t, s))
}

func TestLogout_WritesEmptyTokensWithoutServerCall(t *testing.T) {
	s, _ := setupStore(t)
	seed(t, s, "A", "R")
	fc := &fakeClient{}
	m := NewSessionManager(fc, s, nil)

	require.NoError(t, m.Logout(context.Background()))
	require.Equal(t, models.TokenPair{}, stored(t, s))
	require.Zero(t, fc.VerifyCalls+fc.RefreshCalls)
	require.False(t, m.CheckSession(context.Background()))
}

func TestProfile(t *testing.T) {
	s, _ := setupStore(t)
	fc := &fakeClient{VerifyUser: &models.User{Name: "Nurlan", PhoneNumber: "+996700111222"}}
	m := NewSessionManager(fc, s, nil)

	u, err := m.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Nurlan", u.Name)

	fc.VerifyErr = client.ErrUnauthorized
	_, err = m.Profile(context.Background())
	require.True(t, IsUnauthorized(err))
}

func TestDescribe(t *testing.T) {
	s, _ := setupStore(t)
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-only-key"))
	require.NoError(t, err)
	seed(t, s, access, "opaque-refresh")

	info, err := NewSessionManager(&fakeClient{}, s, nil).Describe(context.Background())
	require.NoError(t, err)
	require.True(t, info.HasAccess)
	require.True(t, info.HasRefresh)
	require.NotNil(t, info.AccessExpiry)
	require.True(t, exp.Equal(*info.AccessExpiry))
	require.Nil(t, info.RefreshExpiry, "opaque tokens have no readable expiry")
}
