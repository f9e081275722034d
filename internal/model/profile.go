package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProfileStore defines persistence operations for public user profiles.
// Username uniqueness is enforced by the storage constraint; Create returns
// ErrAlreadyExists on violation.
type ProfileStore interface {
	Create(ctx context.Context, profile Profile) (Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	GetByUsername(ctx context.Context, username string) (Profile, error)
	Update(ctx context.Context, userID uuid.UUID, patch ProfileUpdate) (Profile, error)
}

// Profile is the public-facing record paired with a user account.
type Profile struct {
	UserID      uuid.UUID
	Username    string
	DisplayName string
	AvatarURL   string
	Bio         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProfileUpdate is a partial patch. Nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string
	AvatarURL   *string
	Bio         *string
}

// Empty reports whether the patch carries no fields.
func (p ProfileUpdate) Empty() bool {
	return p.DisplayName == nil && p.AvatarURL == nil && p.Bio == nil
}
