package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db *Connection
}

func NewProfileRepository(db *Connection) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

const profileColumns = `user_id, username, display_name, avatar_url, bio, created_at, updated_at`

func (r *ProfileRepository) Create(ctx context.Context, profile model.Profile) (model.Profile, error) {
	query := `INSERT INTO profiles (user_id, username, display_name, avatar_url, bio, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + profileColumns

	var saved model.Profile
	err := r.db.QueryRow(ctx, query,
		profile.UserID, profile.Username, profile.DisplayName, profile.AvatarURL, profile.Bio,
		profile.CreatedAt, profile.UpdatedAt,
	).Scan(
		&saved.UserID, &saved.Username, &saved.DisplayName, &saved.AvatarURL, &saved.Bio,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Profile{}, model.ErrAlreadyExists
		}
		return model.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	return saved, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	return r.scanOne(ctx, query, userID)
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`
	return r.scanOne(ctx, query, username)
}

// Update applies only the fields present in the patch. Absent fields keep
// their stored values.
func (r *ProfileRepository) Update(ctx context.Context, userID uuid.UUID, patch model.ProfileUpdate) (model.Profile, error) {
	query := `UPDATE profiles
			  SET display_name = COALESCE($2, display_name),
			      avatar_url = COALESCE($3, avatar_url),
			      bio = COALESCE($4, bio),
			      updated_at = now()
			  WHERE user_id = $1
			  RETURNING ` + profileColumns

	var saved model.Profile
	err := r.db.QueryRow(ctx, query, userID, patch.DisplayName, patch.AvatarURL, patch.Bio).Scan(
		&saved.UserID, &saved.Username, &saved.DisplayName, &saved.AvatarURL, &saved.Bio,
		&saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return saved, nil
}

func (r *ProfileRepository) scanOne(ctx context.Context, query string, arg any) (model.Profile, error) {
	var profile model.Profile
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&profile.UserID, &profile.Username, &profile.DisplayName, &profile.AvatarURL, &profile.Bio,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}
