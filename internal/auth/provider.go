package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelpulse/pixelpulse-core/internal/logger"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

// Provider implements the AuthProvider capability over the user store with
// bcrypt credentials and rotated JWT token pairs.
//
// Session-change callbacks are invoked synchronously and in registration
// order, one transition at a time, so the public session value a caller
// observes after SignIn/SignOut returns already reflects the new state.
// Callbacks must not call back into the provider.
type Provider struct {
	users    model.UserStore
	profiles model.ProfileStore
	tokens   *TokenService
	logger   *logger.Logger

	mu        sync.Mutex
	current   *model.Session
	listeners []sessionListener
	nextID    int
}

type sessionListener struct {
	id int
	fn func(*model.Session)
}

var _ model.AuthProvider = (*Provider)(nil)

func NewProvider(
	users model.UserStore,
	profiles model.ProfileStore,
	tokens *TokenService,
	logger *logger.Logger,
) *Provider {
	return &Provider{
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		logger:   logger,
	}
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.NewAuthError(model.AuthInvalidCredentials, "email or password is incorrect", nil)
	}
	if err != nil {
		return nil, model.NewAuthError(model.AuthNetworkError, "failed to look up account", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, model.NewAuthError(model.AuthInvalidCredentials, "email or password is incorrect", nil)
	}

	if user.EmailVerifiedAt == nil {
		return nil, model.NewAuthError(model.AuthEmailNotVerified, "email address is not verified", nil)
	}

	access, refresh, err := p.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, model.NewAuthError(model.AuthUnknown, "failed to issue session tokens", err)
	}

	sess := p.buildSession(ctx, user.ID, user.Email, access, refresh)
	p.setSession(sess)

	p.logger.Info("Auth provider: signed in", "user_id", user.ID)

	return sess, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) (*model.Session, error) {
	_, err := p.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, model.NewAuthError(model.AuthEmailTaken, "email is already in use", nil)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, model.NewAuthError(model.AuthNetworkError, "failed to look up account", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, model.NewAuthError(model.AuthUnknown, "failed to hash password", err)
	}

	now := time.Now()
	user := model.User{
		ID:              uuid.New(),
		Email:           email,
		PasswordHash:    hash,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	saved, err := p.users.Create(ctx, user)
	if errors.Is(err, model.ErrAlreadyExists) {
		return nil, model.NewAuthError(model.AuthEmailTaken, "email is already in use", err)
	}
	if err != nil {
		return nil, model.NewAuthError(model.AuthUnknown, "failed to create account", err)
	}

	access, refresh, err := p.tokens.Issue(ctx, saved.ID)
	if err != nil {
		return nil, model.NewAuthError(model.AuthUnknown, "failed to issue session tokens", err)
	}

	sess := &model.Session{
		UserID:       saved.ID,
		Email:        saved.Email,
		DisplayName:  displayName,
		AccessToken:  access,
		RefreshToken: refresh,
	}
	p.setSession(sess)

	p.logger.Info("Auth provider: account created", "user_id", saved.ID)

	return sess, nil
}

// SignOut always clears the provider session; a failed remote revocation is
// returned so the caller can warn the user.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	var revokeErr error
	if current != nil && current.RefreshToken != "" {
		revokeErr = p.tokens.RevokeByToken(ctx, current.RefreshToken)
	}

	p.setSession(nil)

	if revokeErr != nil {
		return fmt.Errorf("remote sign-out may not have completed: %w", revokeErr)
	}

	return nil
}

func (p *Provider) CurrentSession(ctx context.Context) (*model.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, nil
	}
	c := *p.current
	return &c, nil
}

// Restore revalidates a cached token pair. A still-valid access token is
// accepted as is; an expired one is exchanged through refresh rotation. An
// unusable hint returns an error without touching the current session.
func (p *Provider) Restore(ctx context.Context, accessToken, refreshToken string) (*model.Session, error) {
	userID, err := p.tokens.ParseAccess(accessToken)
	if err != nil {
		rotatedID, newAccess, newRefresh, refreshErr := p.tokens.Refresh(ctx, refreshToken)
		if refreshErr != nil {
			return nil, fmt.Errorf("cached session is not restorable: %w", refreshErr)
		}
		userID, accessToken, refreshToken = rotatedID, newAccess, newRefresh
	}

	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cached session user is gone: %w", err)
	}

	sess := p.buildSession(ctx, user.ID, user.Email, accessToken, refreshToken)
	p.setSession(sess)

	return sess, nil
}

func (p *Provider) OnSessionChange(fn func(*model.Session)) model.Disposer {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners = append(p.listeners, sessionListener{id: id, fn: fn})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, l := range p.listeners {
			if l.id == id {
				p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

// DeleteAccount removes an account created by SignUp, for cleanup when the
// paired profile insert fails.
func (p *Provider) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := p.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	if err := p.users.SoftDelete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (p *Provider) buildSession(ctx context.Context, userID uuid.UUID, email, access, refresh string) *model.Session {
	sess := &model.Session{
		UserID:       userID,
		Email:        email,
		AccessToken:  access,
		RefreshToken: refresh,
	}

	profile, err := p.profiles.GetByUserID(ctx, userID)
	if err != nil {
		p.logger.Debug("Auth provider: no profile for session", "user_id", userID, "error", err.Error())
		return sess
	}
	sess.DisplayName = profile.DisplayName

	return sess
}

// setSession replaces the current session and notifies listeners while
// holding the lock, so transitions are delivered atomically and in order.
func (p *Provider) setSession(s *model.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = s
	for _, l := range p.listeners {
		if s == nil {
			l.fn(nil)
			continue
		}
		c := *s
		l.fn(&c)
	}
}
