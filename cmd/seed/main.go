package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"mediahub/internal/database"
	"mediahub/internal/domain"
	"mediahub/internal/repository"
)

// Seeds a local database with a few users, subscription edges, videos and
// watch history for manual testing.
func main() {
	db, err := database.Connect("mediahub.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Subscription{},
		&domain.Video{},
		&domain.WatchEntry{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM watch_entries")
	db.Exec("DELETE FROM subscriptions")
	db.Exec("DELETE FROM videos")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	videos := repository.NewVideoRepository(db)

	log.Println("Creating users...")
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	names := []string{"alice", "bob", "carol", "dave"}
	created := make(map[string]*domain.User, len(names))
	for _, name := range names {
		u := &domain.User{
			Username:     name,
			Email:        fmt.Sprintf("%s@mediahub.dev", name),
			FullName:     fmt.Sprintf("%s Example", name),
			PasswordHash: string(hash),
			AvatarURL:    fmt.Sprintf("https://cdn.mediahub.dev/avatars/%s.png", name),
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("seed user failed:", err)
		}
		created[name] = u
	}

	log.Println("Creating subscriptions...")
	for _, follower := range []string{"bob", "carol", "dave"} {
		if _, err := subs.Create(ctx, created[follower].ID, created["alice"].ID); err != nil {
			log.Fatal("seed subscription failed:", err)
		}
	}
	if _, err := subs.Create(ctx, created["alice"].ID, created["bob"].ID); err != nil {
		log.Fatal("seed subscription failed:", err)
	}

	log.Println("Creating videos and history...")
	var vids []*domain.Video
	for i := 1; i <= 3; i++ {
		v := &domain.Video{
			OwnerID:      created["alice"].ID,
			Title:        fmt.Sprintf("Alice vlog #%d", i),
			Description:  "Seeded video",
			VideoURL:     fmt.Sprintf("https://cdn.mediahub.dev/videos/alice-%d.mp4", i),
			ThumbnailURL: fmt.Sprintf("https://cdn.mediahub.dev/thumbs/alice-%d.jpg", i),
			Duration:     120.0,
			Published:    true,
		}
		if err := videos.Create(ctx, v); err != nil {
			log.Fatal("seed video failed:", err)
		}
		vids = append(vids, v)
	}
	// bob watched #3 then #1
	for _, v := range []*domain.Video{vids[2], vids[0]} {
		if err := videos.AppendWatchEntry(ctx, created["bob"].ID, v.ID); err != nil {
			log.Fatal("seed history failed:", err)
		}
	}

	log.Println("Seed complete.")
}
