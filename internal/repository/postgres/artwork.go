package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

// feedKey is the NOTIFY payload for feed-wide changes; the feed is not
// filtered per user.
const feedKey = "feed"

var _ model.ArtworkStore = (*ArtworkRepository)(nil)

type ArtworkRepository struct {
	db       *Connection
	listener *Listener
}

func NewArtworkRepository(db *Connection, listener *Listener) *ArtworkRepository {
	return &ArtworkRepository{
		db:       db,
		listener: listener,
	}
}

func (r *ArtworkRepository) Create(ctx context.Context, a model.Artwork) (model.Artwork, error) {
	query := `INSERT INTO artworks (id, owner_id, title, prompt, image_url, likes, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, owner_id, title, prompt, image_url, likes, created_at`

	var saved model.Artwork
	err := r.db.QueryRow(ctx, query,
		a.ID, a.OwnerID, a.Title, a.Prompt, a.ImageURL, a.Likes, a.CreatedAt,
	).Scan(
		&saved.ID, &saved.OwnerID, &saved.Title, &saved.Prompt, &saved.ImageURL,
		&saved.Likes, &saved.CreatedAt,
	)
	if err != nil {
		return model.Artwork{}, fmt.Errorf("failed to create artwork: %w", err)
	}

	return saved, nil
}

func (r *ArtworkRepository) ListRecent(ctx context.Context, limit int) ([]model.Artwork, error) {
	query := `SELECT id, owner_id, title, prompt, image_url, likes, created_at
			  FROM artworks
			  ORDER BY created_at DESC
			  LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list artworks: %w", err)
	}
	defer rows.Close()

	artworks := make([]model.Artwork, 0)
	for rows.Next() {
		var a model.Artwork
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Title, &a.Prompt, &a.ImageURL, &a.Likes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artwork: %w", err)
		}
		artworks = append(artworks, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read artworks: %w", err)
	}

	return artworks, nil
}

// Like records the (artwork, user) pair and bumps the counter only when the
// pair is new, so repeated likes are idempotent.
func (r *ArtworkRepository) Like(ctx context.Context, artworkID, userID uuid.UUID) error {
	query := `WITH inserted AS (
				  INSERT INTO artwork_likes (artwork_id, user_id)
				  VALUES ($1, $2)
				  ON CONFLICT DO NOTHING
				  RETURNING 1
			  )
			  UPDATE artworks SET likes = likes + (SELECT count(*) FROM inserted)
			  WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, artworkID, userID)
	if err != nil {
		return fmt.Errorf("failed to like artwork: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *ArtworkRepository) Unlike(ctx context.Context, artworkID, userID uuid.UUID) error {
	query := `WITH deleted AS (
				  DELETE FROM artwork_likes
				  WHERE artwork_id = $1 AND user_id = $2
				  RETURNING 1
			  )
			  UPDATE artworks SET likes = likes - (SELECT count(*) FROM deleted)
			  WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, artworkID, userID)
	if err != nil {
		return fmt.Errorf("failed to unlike artwork: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *ArtworkRepository) Subscribe(ctx context.Context, onChange func()) (model.Disposer, error) {
	return r.listener.Subscribe(channelArtworks, feedKey, onChange), nil
}
