//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pixelpulse/pixelpulse-core/internal/model"
	repo "github.com/pixelpulse/pixelpulse-core/internal/repository/postgres"
	"github.com/pixelpulse/pixelpulse-core/internal/testutil"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "pixelpulse_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/pixelpulse_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func createUser(t *testing.T, ctx context.Context, ur model.UserStore, email string) model.User {
	t.Helper()
	now := time.Now()
	u, err := ur.Create(ctx, model.User{
		ID:              uuid.New(),
		Email:           email,
		PasswordHash:    []byte("hash"),
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)
	return u
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	t.Run("user_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		u := createUser(t, ctx, ur, "user@example.com")

		byEmail, err := ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)

		byID, err := ur.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, byID.Email)

		_, err = ur.Create(ctx, model.User{ID: uuid.New(), Email: u.Email, PasswordHash: []byte("x")})
		require.ErrorIs(t, err, model.ErrAlreadyExists)

		require.NoError(t, ur.SoftDelete(ctx, u.ID))
		_, err = ur.GetByID(ctx, u.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("profile_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		pr := repo.NewProfileRepository(conn)
		u := createUser(t, ctx, ur, "profile@example.com")

		now := time.Now()
		p, err := pr.Create(ctx, model.Profile{
			UserID: u.ID, Username: "pixel_artist", DisplayName: "Pixel Artist",
			CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)
		require.Equal(t, "pixel_artist", p.Username)

		_, err = pr.Create(ctx, model.Profile{UserID: u.ID, Username: "pixel_artist"})
		require.ErrorIs(t, err, model.ErrAlreadyExists)

		byUsername, err := pr.GetByUsername(ctx, "pixel_artist")
		require.NoError(t, err)
		require.Equal(t, u.ID, byUsername.UserID)

		bio := "I paint with prompts"
		updated, err := pr.Update(ctx, u.ID, model.ProfileUpdate{Bio: &bio})
		require.NoError(t, err)
		require.Equal(t, bio, updated.Bio)
		require.Equal(t, "Pixel Artist", updated.DisplayName, "unpatched fields survive")
	})

	t.Run("refresh_token_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		rr := repo.NewRefreshTokenRepository(conn)
		u := createUser(t, ctx, ur, "tokens@example.com")

		now := time.Now()
		rt := model.RefreshToken{
			ID: uuid.New(), JTI: uuid.NewString(), UserID: u.ID,
			TokenHash: []byte("hash"), IssuedAt: now, ExpiresAt: now.Add(time.Hour),
			CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, rr.Create(ctx, rt))

		got, err := rr.GetByJTI(ctx, rt.JTI)
		require.NoError(t, err)
		require.Nil(t, got.RevokedAt)

		require.NoError(t, rr.RevokeByJTI(ctx, rt.JTI))
		got, err = rr.GetByJTI(ctx, rt.JTI)
		require.NoError(t, err)
		require.NotNil(t, got.RevokedAt)

		require.NoError(t, rr.RevokeAllByUser(ctx, u.ID))
	})
}

func TestNotificationFlow(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	listener := repo.NewListener(conn, testutil.MakeNoopLogger())
	require.NoError(t, listener.Start(ctx))
	t.Cleanup(listener.Stop)

	ur := repo.NewUserRepository(conn)
	nr := repo.NewNotificationRepository(conn, listener)
	u := createUser(t, ctx, ur, "notify@example.com")

	changed := make(chan struct{}, 8)
	dispose, err := nr.Subscribe(ctx, u.ID, func() { changed <- struct{}{} })
	require.NoError(t, err)
	t.Cleanup(dispose)

	n, err := nr.Create(ctx, model.Notification{
		ID: uuid.New(), UserID: u.ID, Type: model.NotificationLike,
		Title: "New like", Body: "Someone liked your artwork", CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal after insert")
	}

	count, err := nr.CountUnread(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, nr.MarkRead(ctx, n.ID))
	count, err = nr.CountUnread(ctx, u.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	list, err := nr.ListByUser(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Read)

	require.NoError(t, nr.DeleteAll(ctx, u.ID))
	list, err = nr.ListByUser(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestChatAndMessageFlow(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	listener := repo.NewListener(conn, testutil.MakeNoopLogger())
	require.NoError(t, listener.Start(ctx))
	t.Cleanup(listener.Stop)

	ur := repo.NewUserRepository(conn)
	cr := repo.NewChatRepository(conn, listener)
	mr := repo.NewMessageRepository(conn, listener)
	alice := createUser(t, ctx, ur, "alice@example.com")
	bob := createUser(t, ctx, ur, "bob@example.com")

	chat, err := cr.Create(ctx, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)

	changed := make(chan struct{}, 8)
	dispose, err := mr.Subscribe(ctx, chat.ID, func() { changed <- struct{}{} })
	require.NoError(t, err)
	t.Cleanup(dispose)

	msg, err := mr.Create(ctx, model.Message{
		ID: uuid.New(), ChatID: chat.ID, SenderID: alice.ID,
		Content: "hello bob",
		Attachments: []model.Attachment{
			{Type: model.AttachmentImage, URL: "http://cdn.local/a.png", Name: "a.png"},
		},
		SentAt: time.Now(),
	})
	require.NoError(t, err)

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal after message insert")
	}

	require.NoError(t, cr.TouchOnSend(ctx, chat.ID, msg.Content, msg.SentAt))

	got, err := cr.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	require.Equal(t, "hello bob", got.LastMessage)
	require.Equal(t, 1, got.UnreadCount)

	msgs, err := mr.ListByChat(ctx, chat.ID, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Attachments, 1)
	require.Equal(t, "a.png", msgs[0].Attachments[0].Name)

	require.NoError(t, mr.MarkRead(ctx, chat.ID, []uuid.UUID{msg.ID}))
	require.NoError(t, cr.ResetUnread(ctx, chat.ID))

	got, err = cr.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	require.Zero(t, got.UnreadCount)

	chats, err := cr.ListByParticipant(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
}

func TestArtworkLikesAreIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	listener := repo.NewListener(conn, testutil.MakeNoopLogger())
	require.NoError(t, listener.Start(ctx))
	t.Cleanup(listener.Stop)

	ur := repo.NewUserRepository(conn)
	ar := repo.NewArtworkRepository(conn, listener)
	owner := createUser(t, ctx, ur, "owner@example.com")
	fan := createUser(t, ctx, ur, "fan@example.com")

	art, err := ar.Create(ctx, model.Artwork{
		ID: uuid.New(), OwnerID: owner.ID, Title: "Dawn", Prompt: "sunrise",
		ImageURL: "http://cdn.local/dawn.png", CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, ar.Like(ctx, art.ID, fan.ID))
	require.NoError(t, ar.Like(ctx, art.ID, fan.ID))

	feed, err := ar.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, feed)
	require.Equal(t, 1, likesOf(feed, art.ID), "double like counts once")

	require.NoError(t, ar.Unlike(ctx, art.ID, fan.ID))
	require.NoError(t, ar.Unlike(ctx, art.ID, fan.ID))

	feed, err = ar.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Zero(t, likesOf(feed, art.ID))
}

func likesOf(feed []model.Artwork, id uuid.UUID) int {
	for _, a := range feed {
		if a.ID == id {
			return a.Likes
		}
	}
	return -1
}
