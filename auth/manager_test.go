package auth

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andrebq/authd/credential"
	"github.com/andrebq/authd/internal/ident"
	"github.com/andrebq/authd/internal/logutil"
	"github.com/andrebq/authd/internal/sessioncache"
	"github.com/andrebq/authd/internal/testutil"
	"github.com/andrebq/authd/userstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func acquireManager(ctx context.Context, t *testing.T, opts ...Option) (*Manager, *userstore.Store, func()) {
	store, cleanup := testutil.AcquireStore(ctx, t, "auth")
	return New(store, credential.Bcrypt{Cost: bcrypt.MinCost}, ident.UUID{}, opts...), store, cleanup
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	m, store, cleanup := acquireManager(ctx, t)
	defer cleanup()

	u, err := m.RegisterUser(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", u.Email)
	require.NotEqual(t, "pw1", u.HashedPassword)
	require.False(t, u.SessionID.Valid)

	_, err = m.RegisterUser(ctx, "a@x.com", "pw2")
	require.True(t, errors.Is(err, UserAlreadyExists{Email: "a@x.com"}), "got %v", err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	valid, err := m.ValidLogin(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.True(t, valid, "the first registration must be kept")
}

func TestLogsKeepCredentialsOut(t *testing.T) {
	var buf bytes.Buffer
	ctx := logutil.WithLogger(context.Background(), zerolog.New(&buf))
	m, _, cleanup := acquireManager(ctx, t)
	defer cleanup()

	_, err := m.RegisterUser(ctx, "a@x.com", "s3cr3t-pw")
	require.NoError(t, err)
	token, err := m.ResetPasswordToken(ctx, "a@x.com")
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "User registered")
	require.Contains(t, out, "Password reset requested")
	require.NotContains(t, out, "s3cr3t-pw")
	require.NotContains(t, out, token)
}

func TestValidLogin(t *testing.T) {
	ctx := context.Background()
	m, _, cleanup := acquireManager(ctx, t)
	defer cleanup()

	_, err := m.RegisterUser(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	type testCase struct {
		email    string
		password string
		valid    bool
	}
	for _, tc := range []testCase{
		{"a@x.com", "pw1", true},
		{"a@x.com", "wrong", false},
		{"a@x.com", "", false},
		{"A@x.com", "pw1", false},
		{"unknown@x.com", "pw1", false},
	} {
		valid, err := m.ValidLogin(ctx, tc.email, tc.password)
		require.NoError(t, err)
		require.Equal(t, tc.valid, valid, "ValidLogin(%v, %v)", tc.email, tc.password)
	}
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	cache, err := sessioncache.New(ctx, time.Minute, 0)
	require.NoError(t, err)
	defer cache.Close()

	for name, opts := range map[string][]Option{
		"store": nil,
		"cache": {WithSessionCache(cache)},
	} {
		t.Run(name, func(t *testing.T) {
			m, _, cleanup := acquireManager(ctx, t, opts...)
			defer cleanup()

			u, err := m.RegisterUser(ctx, "a@x.com", "pw1")
			require.NoError(t, err)

			sid, ok, err := m.CreateSession(ctx, "a@x.com")
			require.NoError(t, err)
			require.True(t, ok)
			require.NotEmpty(t, sid)

			got, found, err := m.UserFromSessionID(ctx, sid)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, u.ID, got.ID)
			require.Equal(t, sid, got.SessionID.String)

			second, ok, err := m.CreateSession(ctx, "a@x.com")
			require.NoError(t, err)
			require.True(t, ok)
			require.NotEqual(t, sid, second)

			_, found, err = m.UserFromSessionID(ctx, sid)
			require.NoError(t, err)
			require.False(t, found, "a new session replaces the previous one")

			require.NoError(t, m.DestroySession(ctx, u.ID))
			require.NoError(t, m.DestroySession(ctx, u.ID), "destroying twice is not an error")

			_, found, err = m.UserFromSessionID(ctx, second)
			require.NoError(t, err)
			require.False(t, found)
		})
	}
}

func TestSessionEdgeCases(t *testing.T) {
	ctx := context.Background()
	m, _, cleanup := acquireManager(ctx, t)
	defer cleanup()

	sid, ok, err := m.CreateSession(ctx, "unknown@x.com")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, sid)

	_, found, err := m.UserFromSessionID(ctx, "")
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = m.UserFromSessionID(ctx, "not-a-session")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, m.DestroySession(ctx, 0))
	require.NoError(t, m.DestroySession(ctx, 12345))
}

func TestEmptySessionIDSkipsStore(t *testing.T) {
	m := New(nil, credential.Bcrypt{Cost: bcrypt.MinCost}, ident.UUID{})
	_, found, err := m.UserFromSessionID(context.Background(), "")
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, m.DestroySession(context.Background(), 0))
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	m, _, cleanup := acquireManager(ctx, t)
	defer cleanup()

	_, err := m.RegisterUser(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = m.ResetPasswordToken(ctx, "unknown@x.com")
	require.True(t, errors.Is(err, UserNotFound{Email: "unknown@x.com"}), "got %v", err)

	first, err := m.ResetPasswordToken(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := m.ResetPasswordToken(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	err = m.UpdatePassword(ctx, first, "pw2")
	require.True(t, errors.Is(err, InvalidResetToken{}), "only the latest token is valid, got %v", err)

	require.NoError(t, m.UpdatePassword(ctx, second, "pw2"))
	err = m.UpdatePassword(ctx, second, "pw3")
	require.True(t, errors.Is(err, InvalidResetToken{}), "tokens are single use, got %v", err)

	err = m.UpdatePassword(ctx, "", "pw3")
	require.True(t, errors.Is(err, InvalidResetToken{}), "got %v", err)

	valid, err := m.ValidLogin(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.False(t, valid)
	valid, err = m.ValidLogin(ctx, "a@x.com", "pw2")
	require.NoError(t, err)
	require.True(t, valid)
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	m, _, cleanup := acquireManager(ctx, t)
	defer cleanup()

	u, err := m.RegisterUser(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	valid, err := m.ValidLogin(ctx, "a@x.com", "wrong")
	require.NoError(t, err)
	require.False(t, valid)
	valid, err = m.ValidLogin(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.True(t, valid)

	sid, ok, err := m.CreateSession(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, sid)

	got, found, err := m.UserFromSessionID(ctx, sid)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, u.ID, got.ID)

	require.NoError(t, m.DestroySession(ctx, got.ID))
	_, found, err = m.UserFromSessionID(ctx, sid)
	require.NoError(t, err)
	require.False(t, found)

	token, err := m.ResetPasswordToken(ctx, "a@x.com")
	require.NoError(t, err)
	require.NoError(t, m.UpdatePassword(ctx, token, "pw2"))

	valid, err = m.ValidLogin(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.False(t, valid)
	valid, err = m.ValidLogin(ctx, "a@x.com", "pw2")
	require.NoError(t, err)
	require.True(t, valid)
}
