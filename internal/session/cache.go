package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

// cachedSession is the on-disk session hint. It is never trusted as is: the
// store revalidates it against the auth provider at bootstrap.
type cachedSession struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// Cache persists the last known session under a single well-known path.
type Cache struct {
	path string
}

func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Load returns the cached hint, or nil when there is none. A corrupt file is
// treated as no hint.
func (c *Cache) Load() (*cachedSession, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session cache: %w", err)
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, nil
	}
	if cached.UserID == uuid.Nil {
		return nil, nil
	}

	return &cached, nil
}

// Save writes the session hint, creating the parent directory if needed.
func (c *Cache) Save(s model.Session) error {
	data, err := json.Marshal(cachedSession{
		UserID:       s.UserID,
		Email:        s.Email,
		DisplayName:  s.DisplayName,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session cache dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session cache: %w", err)
	}

	return nil
}

// Clear removes the hint. Missing files are not an error.
func (c *Cache) Clear() error {
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear session cache: %w", err)
	}
	return nil
}
