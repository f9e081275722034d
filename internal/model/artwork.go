package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Artwork is a generated-art post in the public feed.
type Artwork struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	Prompt    string
	ImageURL  string
	Likes     int
	CreatedAt time.Time
}

// ArtworkStore defines persistence and live-query operations for the feed.
// ListRecent is ordered by created_at, newest first.
type ArtworkStore interface {
	Create(ctx context.Context, a Artwork) (Artwork, error)
	ListRecent(ctx context.Context, limit int) ([]Artwork, error)
	// Like and Unlike are idempotent per (artwork, user) pair.
	Like(ctx context.Context, artworkID, userID uuid.UUID) error
	Unlike(ctx context.Context, artworkID, userID uuid.UUID) error
	Subscribe(ctx context.Context, onChange func()) (Disposer, error)
}
