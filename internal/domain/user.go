package domain

import "time"

// User is the identity record. Username and email are unique; username is
// stored lowercased. PasswordHash and RefreshToken never leave the backend —
// handlers serialize PublicUser instead.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username" gorm:"uniqueIndex"`
	Email         string    `json:"email" gorm:"uniqueIndex" validate:"required,email"`
	FullName      string    `json:"fullname"`
	PasswordHash  string    `json:"-"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL *string   `json:"cover_image_url,omitempty"`
	RefreshToken  *string   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PublicUser is the projection of User safe to return to clients.
type PublicUser struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullname"`
	AvatarURL     string    `json:"avatar_url"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Public strips credential and session state from the record.
func (u *User) Public() PublicUser {
	var cover string
	if u.CoverImageURL != nil {
		cover = *u.CoverImageURL
	}
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: cover,
		CreatedAt:     u.CreatedAt,
	}
}
