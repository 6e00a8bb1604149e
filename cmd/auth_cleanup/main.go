package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"mediahub/internal/config"
	"mediahub/internal/database"
	"mediahub/internal/domain"
	jwtsvc "mediahub/internal/pkg/jwt"
	"mediahub/internal/repository"
)

// Nulls out refresh-token slots holding tokens that no longer verify
// (expired or signed with a rotated secret). Purely hygienic: a stale slot
// already fails rotation, this just keeps dead tokens out of the table.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	codec := jwtsvc.New(cfg.RefreshSecret, cfg.RefreshTTL)
	users := repository.NewUserRepository(db)

	var withSessions []domain.User
	if err := db.Where("refresh_token IS NOT NULL").Find(&withSessions).Error; err != nil {
		log.Fatalf("list sessions failed: %v", err)
	}

	ctx := context.Background()
	cleared := 0
	for _, u := range withSessions {
		if _, err := codec.VerifyRefresh(*u.RefreshToken); err == nil {
			continue
		}
		if err := users.UpdateFields(ctx, u.ID, map[string]any{"refresh_token": nil}); err != nil {
			log.Fatalf("clear slot for user %d failed: %v", u.ID, err)
		}
		cleared++
	}

	log.Printf("auth cleanup completed: sessions=%d cleared=%d", len(withSessions), cleared)
}
