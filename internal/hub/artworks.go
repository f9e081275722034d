package hub

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pixelpulse/pixelpulse-core/internal/logger"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

const (
	feedPageSize = 60

	// FeedKey scopes the artwork hub; the feed is global, not per user.
	FeedKey = "feed"
)

// ArtworksHub mirrors the public artwork feed, newest first. Likes are
// applied optimistically.
type ArtworksHub struct {
	*Hub[string, []model.Artwork]
	store  model.ArtworkStore
	files  model.FileStore
	logger *logger.Logger
}

func NewArtworksHub(store model.ArtworkStore, files model.FileStore, logger *logger.Logger) *ArtworksHub {
	return &ArtworksHub{
		Hub: New(
			"artworks",
			func(ctx context.Context, _ string) ([]model.Artwork, error) {
				return store.ListRecent(ctx, feedPageSize)
			},
			func(ctx context.Context, _ string, onChange func()) (model.Disposer, error) {
				return store.Subscribe(ctx, onChange)
			},
			logger,
		),
		store:  store,
		files:  files,
		logger: logger,
	}
}

// Publish uploads the rendered image and creates the artwork. A failed
// insert removes the uploaded image again.
func (h *ArtworksHub) Publish(ctx context.Context, ownerID uuid.UUID, title, prompt string, image io.Reader, size int64, contentType string) (model.Artwork, error) {
	id := uuid.New()
	key := fmt.Sprintf("artworks/%s", id)

	url, err := h.files.Upload(ctx, key, image, size, contentType)
	if err != nil {
		return model.Artwork{}, fmt.Errorf("failed to upload artwork image: %w", err)
	}

	artwork, err := h.store.Create(ctx, model.Artwork{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Prompt:    prompt,
		ImageURL:  url,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if delErr := h.files.Delete(ctx, key); delErr != nil {
			h.logger.Warn("Artworks hub: failed to remove orphaned image", "key", key, "error", delErr.Error())
		}
		return model.Artwork{}, fmt.Errorf("failed to create artwork: %w", err)
	}

	return artwork, nil
}

// Like bumps the like counter optimistically and records the like.
func (h *ArtworksHub) Like(ctx context.Context, artworkID, userID uuid.UUID) error {
	rollback := h.adjustLikes(artworkID, +1)

	if err := h.store.Like(ctx, artworkID, userID); err != nil {
		rollback()
		return fmt.Errorf("failed to like artwork: %w", err)
	}

	return nil
}

// Unlike removes the like, optimistically.
func (h *ArtworksHub) Unlike(ctx context.Context, artworkID, userID uuid.UUID) error {
	rollback := h.adjustLikes(artworkID, -1)

	if err := h.store.Unlike(ctx, artworkID, userID); err != nil {
		rollback()
		return fmt.Errorf("failed to unlike artwork: %w", err)
	}

	return nil
}

func (h *ArtworksHub) adjustLikes(artworkID uuid.UUID, delta int) func() {
	return h.Mutate(func(items []model.Artwork) []model.Artwork {
		next := make([]model.Artwork, len(items))
		copy(next, items)
		for i := range next {
			if next[i].ID == artworkID {
				next[i].Likes += delta
				if next[i].Likes < 0 {
					next[i].Likes = 0
				}
			}
		}
		return next
	})
}
