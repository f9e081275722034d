package model

import (
	"context"

	"github.com/google/uuid"
)

// Disposer cancels a subscription or callback registration. Implementations
// must tolerate being invoked more than once.
type Disposer func()

// Session is the locally held representation of the authenticated principal.
// The zero value means "not authenticated".
type Session struct {
	UserID       uuid.UUID
	Email        string
	DisplayName  string
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s Session) Authenticated() bool {
	return s.UserID != uuid.Nil
}

// AuthProvider is the authentication capability of the backend collaborator.
// A nil *Session delivered to a change callback means "signed out".
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password, displayName string) (*Session, error)
	SignOut(ctx context.Context) error
	// CurrentSession returns the provider's live session, or nil when none.
	CurrentSession(ctx context.Context) (*Session, error)
	// Restore revalidates a cached session hint. An expired access token is
	// exchanged via the refresh token; an unusable hint yields an error and
	// no session change.
	Restore(ctx context.Context, accessToken, refreshToken string) (*Session, error)
	// OnSessionChange registers a callback fired on every session-state
	// transition, in delivery order. The registration survives until the
	// disposer runs.
	OnSessionChange(fn func(*Session)) Disposer
	// DeleteAccount removes an account created by SignUp. Used to clean up
	// when profile creation fails after account creation succeeded.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}
