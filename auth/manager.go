// Package auth registers users and manages their session and password
// reset state.
//
// Each user is either anonymous or authenticated (holds a session id), and
// independently may have a pending password reset (holds a reset token).
// A user has at most one session and one reset token, issuing a new one
// replaces the previous.
//
// Expected outcomes (bad password, unknown session) are reported as boolean
// results, caller mistakes (duplicate email, unknown reset token) as the
// error types in this package. Any other error comes from the store.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrebq/authd/credential"
	"github.com/andrebq/authd/internal/ident"
	"github.com/andrebq/authd/internal/logutil"
	"github.com/andrebq/authd/userstore"
)

type (
	User = userstore.User

	Store interface {
		Add(ctx context.Context, email, hashedPassword string) (userstore.User, error)
		FindBy(ctx context.Context, c userstore.Criteria) (userstore.User, bool, error)
		Update(ctx context.Context, c userstore.Criteria, ch userstore.Changes) error
	}

	SessionCache interface {
		Save(ctx context.Context, sessionID string, userID int64) error
		Lookup(ctx context.Context, sessionID string) (int64, bool, error)
		Forget(ctx context.Context, sessionID string) error
	}

	Manager struct {
		store    Store
		hasher   credential.Hasher
		ids      ident.Generator
		sessions SessionCache
	}

	Option func(*Manager)
)

// WithSessionCache puts c in front of session id lookups.
func WithSessionCache(c SessionCache) Option {
	return func(m *Manager) {
		m.sessions = c
	}
}

func New(store Store, hasher credential.Hasher, ids ident.Generator, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		hasher: hasher,
		ids:    ids,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// RegisterUser creates an anonymous user with the given credentials.
func (m *Manager) RegisterUser(ctx context.Context, email, password string) (User, error) {
	hashed, err := m.hasher.Hash(password)
	if err != nil {
		return User{}, err
	}
	u, err := m.store.Add(ctx, email, hashed)
	var dup userstore.DuplicateEmail
	if errors.As(err, &dup) {
		return User{}, UserAlreadyExists{Email: email}
	} else if err != nil {
		return User{}, err
	}
	log := logutil.GetOrDefault(ctx)
	log.Info().Int64("user_id", u.ID).Msg("User registered")
	return u, nil
}

// ValidLogin reports if password matches the one stored for email.
// Unknown users are reported as an invalid login.
func (m *Manager) ValidLogin(ctx context.Context, email, password string) (bool, error) {
	u, found, err := m.store.FindBy(ctx, userstore.ByEmail(email))
	if err != nil || !found {
		return false, err
	}
	return m.hasher.Verify(u.HashedPassword, password), nil
}

// CreateSession issues a new session id for email, replacing the previous one.
// When the user does not exist no session is created and ok is false.
func (m *Manager) CreateSession(ctx context.Context, email string) (sessionID string, ok bool, err error) {
	u, found, err := m.store.FindBy(ctx, userstore.ByEmail(email))
	if err != nil || !found {
		return "", false, err
	}
	sessionID, err = m.ids.NewID()
	if err != nil {
		return "", false, err
	}
	err = m.store.Update(ctx, userstore.ByID(u.ID), userstore.Changes{SessionID: userstore.Set(sessionID)})
	var notFound userstore.RecordNotFound
	if errors.As(err, &notFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	m.cacheSession(ctx, sessionID, u.ID)
	return sessionID, true, nil
}

// UserFromSessionID returns the user holding sessionID, found is false for
// an empty or unknown session id.
func (m *Manager) UserFromSessionID(ctx context.Context, sessionID string) (u User, found bool, err error) {
	if len(sessionID) == 0 {
		return User{}, false, nil
	}
	if u, found := m.cachedSession(ctx, sessionID); found {
		return u, true, nil
	}
	return m.store.FindBy(ctx, userstore.BySessionID(sessionID))
}

// DestroySession logs out userID. Zero or unknown ids are ignored.
func (m *Manager) DestroySession(ctx context.Context, userID int64) error {
	if userID == 0 {
		return nil
	}
	err := m.store.Update(ctx, userstore.ByID(userID), userstore.Changes{SessionID: userstore.Clear()})
	var notFound userstore.RecordNotFound
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}

// ResetPasswordToken issues a reset token for email, replacing any
// previous one.
func (m *Manager) ResetPasswordToken(ctx context.Context, email string) (string, error) {
	u, found, err := m.store.FindBy(ctx, userstore.ByEmail(email))
	if err != nil {
		return "", err
	} else if !found {
		return "", UserNotFound{Email: email}
	}
	token, err := m.ids.NewID()
	if err != nil {
		return "", err
	}
	err = m.store.Update(ctx, userstore.ByID(u.ID), userstore.Changes{ResetToken: userstore.Set(token)})
	var notFound userstore.RecordNotFound
	if errors.As(err, &notFound) {
		return "", UserNotFound{Email: email}
	} else if err != nil {
		return "", err
	}
	log := logutil.GetOrDefault(ctx)
	log.Info().Int64("user_id", u.ID).Msg("Password reset requested")
	return token, nil
}

// UpdatePassword replaces the password of the user holding resetToken and
// consumes the token. Both happen in the same store update, a token can
// only be used once.
func (m *Manager) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	if len(resetToken) == 0 {
		return InvalidResetToken{}
	}
	hashed, err := m.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	err = m.store.Update(ctx, userstore.ByResetToken(resetToken), userstore.Changes{
		HashedPassword: userstore.Password(hashed),
		ResetToken:     userstore.Clear(),
	})
	var notFound userstore.RecordNotFound
	if errors.As(err, &notFound) {
		return InvalidResetToken{}
	} else if err != nil {
		return fmt.Errorf("unable to update password, cause %w", err)
	}
	return nil
}

func (m *Manager) cacheSession(ctx context.Context, sessionID string, userID int64) {
	if m.sessions == nil {
		return
	}
	if err := m.sessions.Save(ctx, sessionID, userID); err != nil {
		log := logutil.GetOrDefault(ctx)
		log.Warn().Err(err).Int64("user_id", userID).Msg("Unable to cache session")
	}
}

// cachedSession resolves sessionID through the cache, the hit is confirmed
// against the store and dropped when the user no longer holds the session.
func (m *Manager) cachedSession(ctx context.Context, sessionID string) (User, bool) {
	if m.sessions == nil {
		return User{}, false
	}
	log := logutil.GetOrDefault(ctx)
	userID, found, err := m.sessions.Lookup(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to read session cache")
		return User{}, false
	} else if !found {
		return User{}, false
	}
	u, found, err := m.store.FindBy(ctx, userstore.ByID(userID))
	if err == nil && found && u.SessionID.Valid && u.SessionID.String == sessionID {
		return u, true
	}
	if err := m.sessions.Forget(ctx, sessionID); err != nil {
		log.Warn().Err(err).Msg("Unable to evict stale session")
	}
	return User{}, false
}
