package auth

import (
	"context"

	"mediahub/internal/domain"
	"mediahub/internal/pkg/jwt"
)

// UserRepositoryInterface — only the methods the session manager uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
}

// AccessCodec signs the short-lived access token.
type AccessCodec interface {
	SignAccess(userID int64, username, email, fullName string) (string, error)
}

// RefreshCodec signs and verifies the long-lived refresh token.
type RefreshCodec interface {
	SignRefresh(userID int64) (string, error)
	VerifyRefresh(token string) (*jwt.RefreshClaims, error)
}

// Uploader pushes a local file to object storage and returns its URL. The
// local file is removed regardless of outcome.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
