package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixelpulse/pixelpulse-core/internal/model"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "artist@example.com", wantErr: false},
		{name: "subdomain", email: "a@mail.example.co", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "missing at", email: "artist.example.com", wantErr: true},
		{name: "missing domain dot", email: "artist@example", wantErr: true},
		{name: "whitespace", email: "artist @example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEmail(tt.email)
			if tt.wantErr {
				var ve *model.ValidationError
				assert.ErrorAs(t, err, &ve)
				assert.Equal(t, "email", ve.Field)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, validatePassword("secret1"))
	assert.Error(t, validatePassword("short"))
	assert.Error(t, validatePassword(""))
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid", username: "pixel_artist", wantErr: false},
		{name: "digits", username: "user123", wantErr: false},
		{name: "too short", username: "ab", wantErr: true},
		{name: "too long", username: "a_very_long_username_x", wantErr: true},
		{name: "spaces", username: "pixel artist", wantErr: true},
		{name: "symbols", username: "pixel-artist!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
