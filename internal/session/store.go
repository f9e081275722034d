package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixelpulse/pixelpulse-core/internal/logger"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

// Store is the single source of truth for "who is logged in" and the only
// component permitted to call the auth provider. The exposed session value
// is replaced atomically, exactly once per auth-state transition, in the
// order transitions are delivered.
//
// OnChange callbacks must not invoke the store's own auth operations.
type Store struct {
	provider model.AuthProvider
	profiles model.ProfileStore
	cache    *Cache
	logger   *logger.Logger

	mu           sync.RWMutex
	session      model.Session
	loading      bool
	listeners    []changeListener
	nextID       int
	bootstrapped bool
	dispose      model.Disposer
}

type changeListener struct {
	id int
	fn func(model.Session)
}

func New(
	provider model.AuthProvider,
	profiles model.ProfileStore,
	cache *Cache,
	logger *logger.Logger,
) *Store {
	return &Store{
		provider: provider,
		profiles: profiles,
		cache:    cache,
		logger:   logger,
	}
}

// Bootstrap runs once at application start, before anything renders. It
// registers the persistent session-change callback and revalidates the
// cached session hint against the provider. The callback registration lives
// until Close at application teardown.
func (s *Store) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	if s.bootstrapped {
		s.mu.Unlock()
		return fmt.Errorf("bootstrap already performed")
	}
	s.bootstrapped = true
	s.loading = true
	s.mu.Unlock()

	defer s.setLoading(false)

	dispose := s.provider.OnSessionChange(s.apply)
	s.mu.Lock()
	s.dispose = dispose
	s.mu.Unlock()

	cached, err := s.cache.Load()
	if err != nil {
		s.logger.Warn("session: failed to load cached session", "error", err.Error())
	}

	if cached == nil {
		// No hint; ask the provider anyway in case it already has a session.
		if _, err := s.provider.CurrentSession(ctx); err != nil {
			s.logger.Warn("session: failed to query current session", "error", err.Error())
		}
		return nil
	}

	if _, err := s.provider.Restore(ctx, cached.AccessToken, cached.RefreshToken); err != nil {
		s.logger.Info("session: cached session not restorable", "error", err.Error())
		if err := s.cache.Clear(); err != nil {
			s.logger.Warn("session: failed to clear session cache", "error", err.Error())
		}
	}

	return nil
}

// Login signs the user in. Validation failures are returned before any
// backend call; on failure the session is left unchanged.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return &model.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	if err := s.beginOp(); err != nil {
		return err
	}
	defer s.endOp()

	if _, err := s.provider.SignIn(ctx, email, password); err != nil {
		return err
	}

	return nil
}

// Register creates the account and its profile as a logical unit. The
// username pre-check is best effort; the storage unique constraint is
// authoritative. If the profile insert fails after the account was created,
// the account is deleted again and the whole operation fails.
func (s *Store) Register(ctx context.Context, email, password, username string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	if err := validateUsername(username); err != nil {
		return err
	}

	if err := s.beginOp(); err != nil {
		return err
	}
	defer s.endOp()

	_, err := s.profiles.GetByUsername(ctx, username)
	if err == nil {
		return model.NewAuthError(model.AuthUsernameTaken, "username is already taken", nil)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.NewAuthError(model.AuthNetworkError, "failed to check username", err)
	}

	sess, err := s.provider.SignUp(ctx, email, password, username)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = s.profiles.Create(ctx, model.Profile{
		UserID:      sess.UserID,
		Username:    username,
		DisplayName: username,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.rollbackRegistration(ctx, sess.UserID)
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.NewAuthError(model.AuthUsernameTaken, "username is already taken", err)
		}
		return model.NewAuthError(model.AuthProfileCreationFailed, "failed to create profile", err)
	}

	return nil
}

// Logout always clears the local session. A returned error means only that
// the remote sign-out may not have completed; it is a warning, not a failure.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.beginOp(); err != nil {
		return err
	}
	defer s.endOp()

	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.Warn("session: remote sign-out failed", "error", err.Error())
		return err
	}

	return nil
}

// UpdateProfile applies only the fields present in the patch. On failure the
// local session is left untouched.
func (s *Store) UpdateProfile(ctx context.Context, patch model.ProfileUpdate) error {
	current := s.Current()
	if !current.Authenticated() {
		return model.ErrNotAuthenticated
	}
	if patch.Empty() {
		return nil
	}

	updated, err := s.profiles.Update(ctx, current.UserID, patch)
	if err != nil {
		return model.NewAuthError(model.AuthProfileUpdateFailed, "failed to update profile", err)
	}

	s.mu.Lock()
	if s.session.UserID != updated.UserID {
		// User switched mid-flight; the change callback already owns state.
		s.mu.Unlock()
		return nil
	}
	next := s.session
	next.DisplayName = updated.DisplayName
	s.mu.Unlock()

	s.replace(next)

	return nil
}

// Current returns the exposed session value.
func (s *Store) Current() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Loading reports whether the initial bootstrap or an auth operation is in
// flight. UserID == Nil with Loading() == false unambiguously means "not
// authenticated".
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// OnChange registers a callback fired after every session replacement.
func (s *Store) OnChange(fn func(model.Session)) model.Disposer {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, changeListener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Close releases the persistent provider registration at application
// teardown. Idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	dispose := s.dispose
	s.dispose = nil
	s.mu.Unlock()

	if dispose != nil {
		dispose()
	}
}

// apply is the single write path fed by the provider's change callback.
func (s *Store) apply(ps *model.Session) {
	if ps == nil {
		s.replace(model.Session{})
		return
	}
	s.replace(*ps)
}

func (s *Store) replace(next model.Session) {
	s.mu.Lock()
	s.session = next
	listeners := make([]changeListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	if next.Authenticated() {
		if err := s.cache.Save(next); err != nil {
			s.logger.Warn("session: failed to persist session cache", "error", err.Error())
		}
	} else {
		if err := s.cache.Clear(); err != nil {
			s.logger.Warn("session: failed to clear session cache", "error", err.Error())
		}
	}

	for _, l := range listeners {
		l.fn(next)
	}
}

func (s *Store) rollbackRegistration(ctx context.Context, userID uuid.UUID) {
	if err := s.provider.DeleteAccount(ctx, userID); err != nil {
		s.logger.Error("session: failed to clean up orphaned account", "user_id", userID, "error", err.Error())
	}
	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.Warn("session: failed to clear session after rollback", "error", err.Error())
	}
}

func (s *Store) beginOp() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return model.ErrOperationInFlight
	}
	s.loading = true
	return nil
}

func (s *Store) endOp() {
	s.setLoading(false)
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
