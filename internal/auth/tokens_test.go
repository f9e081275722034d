package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pixelpulse/pixelpulse-core/internal/mocks"
	"github.com/pixelpulse/pixelpulse-core/internal/model"
	"github.com/pixelpulse/pixelpulse-core/internal/testutil"
)

func TestTokenService_Issue(t *testing.T) {
	userID := uuid.New()
	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}

	manager.On("GenerateAccessToken", userID).Return("access", nil)
	manager.On("GenerateRefreshToken", userID).Return("refresh", "jti-1", nil)
	store.On("Create", mock.Anything, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.UserID == userID && rt.JTI == "jti-1" && len(rt.TokenHash) == 32
	})).Return(nil)

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	access, refresh, err := svc.Issue(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "access", access)
	assert.Equal(t, "refresh", refresh)
	store.AssertExpectations(t)
}

func TestTokenService_Refresh_Rotates(t *testing.T) {
	userID := uuid.New()
	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}

	now := time.Now()
	manager.On("ParseRefreshToken", "old-refresh").Return(userID, "jti-old", nil)
	store.On("GetByJTI", mock.Anything, "jti-old").Return(model.RefreshToken{
		JTI:       "jti-old",
		UserID:    userID,
		TokenHash: hashRefresh("old-refresh"),
		IssuedAt:  now.Add(-time.Hour),
		ExpiresAt: now.Add(time.Hour),
	}, nil)
	store.On("RevokeByJTI", mock.Anything, "jti-old").Return(nil)
	manager.On("GenerateAccessToken", userID).Return("new-access", nil)
	manager.On("GenerateRefreshToken", userID).Return("new-refresh", "jti-new", nil)
	store.On("Create", mock.Anything, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.JTI == "jti-new" && rt.RotatedFromJTI != nil && *rt.RotatedFromJTI == "jti-old"
	})).Return(nil)

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

	gotID, access, refresh, err := svc.Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, "new-access", access)
	assert.Equal(t, "new-refresh", refresh)
	store.AssertExpectations(t)
}

func TestTokenService_Refresh_Rejections(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	revoked := now.Add(-time.Minute)

	tests := []struct {
		name    string
		record  model.RefreshToken
		wantErr error
	}{
		{
			name: "revoked",
			record: model.RefreshToken{
				TokenHash: hashRefresh("presented"),
				ExpiresAt: now.Add(time.Hour),
				RevokedAt: &revoked,
			},
			wantErr: model.ErrTokenRevoked,
		},
		{
			name: "expired",
			record: model.RefreshToken{
				TokenHash: hashRefresh("presented"),
				ExpiresAt: now.Add(-time.Hour),
			},
			wantErr: model.ErrTokenExpired,
		},
		{
			name: "hash mismatch",
			record: model.RefreshToken{
				TokenHash: hashRefresh("some-other-token"),
				ExpiresAt: now.Add(time.Hour),
			},
			wantErr: model.ErrTokenMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := &mocks.TokenManager{}
			store := &mocks.RefreshTokenStore{}
			manager.On("ParseRefreshToken", "presented").Return(userID, "jti", nil)
			store.On("GetByJTI", mock.Anything, "jti").Return(tt.record, nil)

			svc := NewTokenService(manager, store, testutil.MakeNoopLogger())

			_, _, _, err := svc.Refresh(context.Background(), "presented")
			assert.ErrorIs(t, err, tt.wantErr)
			store.AssertNotCalled(t, "RevokeByJTI", mock.Anything, mock.Anything)
		})
	}
}

func TestTokenService_RevokeByToken(t *testing.T) {
	userID := uuid.New()
	manager := &mocks.TokenManager{}
	store := &mocks.RefreshTokenStore{}
	manager.On("ParseRefreshToken", "refresh").Return(userID, "jti", nil)
	store.On("RevokeByJTI", mock.Anything, "jti").Return(nil)

	svc := NewTokenService(manager, store, testutil.MakeNoopLogger())
	require.NoError(t, svc.RevokeByToken(context.Background(), "refresh"))
	store.AssertExpectations(t)
}
