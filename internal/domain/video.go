package domain

import "time"

// Video is owned by a User and referenced from watch history.
type Video struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id" gorm:"index"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WatchEntry records one watched video for a user. Position preserves the
// watch order, which is the order history queries must return.
type WatchEntry struct {
	ID       int64 `json:"id"`
	UserID   int64 `json:"user_id" gorm:"index"`
	VideoID  int64 `json:"video_id"`
	Position int   `json:"position"`
}
