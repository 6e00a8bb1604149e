package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mediahub/internal/config"
	"mediahub/internal/database"
	"mediahub/internal/domain"
	"mediahub/internal/middleware"
	"mediahub/internal/modules/auth"
	"mediahub/internal/modules/channel"
	jwtsvc "mediahub/internal/pkg/jwt"
	"mediahub/internal/repository"
	"mediahub/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Subscription{},
		&domain.Video{},
		&domain.WatchEntry{},
	); err != nil {
		log.Fatal(err)
	}

	uploader, err := storage.NewS3Uploader(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	videoRepo := repository.NewVideoRepository(db)

	accessCodec := jwtsvc.New(cfg.AccessSecret, cfg.AccessTTL)
	refreshCodec := jwtsvc.New(cfg.RefreshSecret, cfg.RefreshTTL)

	authService := auth.NewService(userRepo, accessCodec, refreshCodec, uploader)
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure:     cfg.CookieSecure,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})

	channelService := channel.NewService(userRepo, subRepo, videoRepo)
	channelHandler := channel.NewHandler(channelService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		// Viewer-relative public endpoints: identity resolved when present.
		optional := v1.Group("/")
		optional.Use(middleware.OptionalAuth(accessCodec))
		{
			channelHandler.RegisterPublicRoutes(optional)
		}

		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(accessCodec))
		{
			authHandler.RegisterProtectedRoutes(protected)
			channelHandler.RegisterProtectedRoutes(protected)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
