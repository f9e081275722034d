package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pixelpulse/pixelpulse-core/internal/auth"
	"github.com/pixelpulse/pixelpulse-core/internal/config"
	"github.com/pixelpulse/pixelpulse-core/internal/hub"
	"github.com/pixelpulse/pixelpulse-core/internal/logger"
	"github.com/pixelpulse/pixelpulse-core/internal/repository/postgres"
	"github.com/pixelpulse/pixelpulse-core/internal/session"
	storage "github.com/pixelpulse/pixelpulse-core/internal/storage/minio"
	"github.com/pixelpulse/pixelpulse-core/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	listener := postgres.NewListener(db, logger)
	if err := listener.Start(ctx); err != nil {
		logger.Fatal("failed to start change listener", "error", err)
	}
	defer listener.Stop()

	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db, listener)
	chatRepo := postgres.NewChatRepository(db, listener)
	messageRepo := postgres.NewMessageRepository(db, listener)
	artworkRepo := postgres.NewArtworkRepository(db, listener)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	fileStore, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicURL, cfg.Storage.MaxUploadBytes)
	if err != nil {
		logger.Fatal("failed to initialize file store", "error", err)
	}

	tokenManager := token.NewJWT(cfg.JWT.Secret)
	tokenService := auth.NewTokenService(tokenManager, refreshTokenRepo, logger)
	provider := auth.NewProvider(userRepo, profileRepo, tokenService, logger)

	sessionCache := session.NewCache(cfg.Session.CachePath)
	sessions := session.New(provider, profileRepo, sessionCache, logger)
	if err := sessions.Bootstrap(ctx); err != nil {
		logger.Fatal("failed to bootstrap session store", "error", err)
	}
	defer sessions.Close()

	manager := hub.NewManager(
		sessions,
		hub.NewNotificationsHub(notificationRepo, logger),
		hub.NewUnreadHub(notificationRepo, logger),
		hub.NewChatsHub(chatRepo, logger),
		hub.NewArtworksHub(artworkRepo, fileStore, logger),
		messageRepo,
		chatRepo,
		fileStore,
		logger,
	)
	manager.Start(ctx)
	defer manager.Stop()

	logAppVersion()
	logger.Info("client core ready", "session", sessions.Current().Authenticated())

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
