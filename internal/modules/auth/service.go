package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediahub/internal/domain"
	"mediahub/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service owns credential verification and the access/refresh token pair
// lifecycle. The user's refresh_token column is a single slot: issuing a new
// pair overwrites it, which invalidates every previously issued refresh token.
type Service struct {
	users    UserRepositoryInterface
	access   AccessCodec
	refresh  RefreshCodec
	uploader Uploader
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func NewService(users UserRepositoryInterface, access AccessCodec, refresh RefreshCodec, uploader Uploader) *Service {
	return &Service{
		users:    users,
		access:   access,
		refresh:  refresh,
		uploader: uploader,
	}
}

// Register creates a new account. The uniqueness check runs before any
// object-store upload so a conflict costs nothing upstream. avatarPath is
// required; coverPath may be empty.
func (s *Service) Register(ctx context.Context, req RegisterRequest, avatarPath, coverPath string) (*domain.User, error) {
	for _, field := range []string{req.Username, req.Email, req.FullName, req.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, ErrFieldsRequired
		}
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	if avatarPath == "" {
		return nil, ErrAvatarRequired
	}

	avatarURL, err := s.uploader.Upload(ctx, avatarPath)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	var coverURL *string
	if coverPath != "" {
		// A failed cover upload degrades to "no cover image".
		if url, err := s.uploader.Upload(ctx, coverPath); err == nil {
			coverURL = &url
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:      strings.ToLower(strings.TrimSpace(req.Username)),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:      strings.TrimSpace(req.FullName),
		PasswordHash:  string(hash),
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	sanitize(user)
	return user, nil
}

// VerifyCredentials resolves the identifier as username or email and checks
// the password. Read-only.
func (s *Service) VerifyCredentials(ctx context.Context, identifier, password string) (*domain.User, error) {
	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login verifies credentials and issues a fresh session pair. The returned
// user is sanitized.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, *TokenPair, error) {
	if req.Identifier() == "" {
		return nil, nil, ErrFieldsRequired
	}
	user, err := s.VerifyCredentials(ctx, req.Identifier(), req.Password)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.IssueSessionPair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	sanitize(user)
	return user, pair, nil
}

// IssueSessionPair signs a new access/refresh pair and persists the refresh
// token into the user's slot, overwriting any prior session. The persistence
// write is last: if it fails no tokens are returned.
func (s *Service) IssueSessionPair(ctx context.Context, userID int64) (*TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	accessToken, err := s.access.SignAccess(user.ID, user.Username, user.Email, user.FullName)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.refresh.SignRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.users.UpdateFields(ctx, user.ID, map[string]any{"refresh_token": refreshToken}); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RotateSession exchanges a presented refresh token for a fresh pair. Checks
// run in order and short-circuit: missing, then invalid (signature/expiry),
// then stale (user gone or token no longer the stored one). A token becomes
// stale the moment a newer pair is issued, so replaying a rotated token
// always fails here.
func (s *Service) RotateSession(ctx context.Context, presented string) (*TokenPair, error) {
	if strings.TrimSpace(presented) == "" {
		return nil, ErrMissingRefreshToken
	}

	claims, err := s.refresh.VerifyRefresh(presented)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaleRefreshToken
		}
		return nil, err
	}
	if user.RefreshToken == nil || *user.RefreshToken != presented {
		return nil, ErrStaleRefreshToken
	}

	return s.IssueSessionPair(ctx, user.ID)
}

// EndSession clears the refresh-token slot. Idempotent.
func (s *Service) EndSession(ctx context.Context, userID int64) error {
	return s.users.UpdateFields(ctx, userID, map[string]any{"refresh_token": nil})
}

// ChangePassword re-verifies the old password before replacing it. The
// active refresh token stays valid.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.users.UpdateFields(ctx, userID, map[string]any{"password_hash": string(hash)})
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	sanitize(user)
	return user, nil
}

// UpdateAccount edits fullname and/or email through the validating write.
func (s *Service) UpdateAccount(ctx context.Context, userID int64, req UpdateAccountRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.FullName != "" {
		user.FullName = strings.TrimSpace(req.FullName)
	}
	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	sanitize(user)
	return user, nil
}

// UpdateAvatar uploads the new image and stores its URL.
func (s *Service) UpdateAvatar(ctx context.Context, userID int64, localPath string) (*domain.User, error) {
	url, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]any{"avatar_url": url}); err != nil {
		return nil, err
	}
	return s.GetCurrentUser(ctx, userID)
}

// UpdateCover uploads the new cover image and stores its URL.
func (s *Service) UpdateCover(ctx context.Context, userID int64, localPath string) (*domain.User, error) {
	url, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("upload cover image: %w", err)
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]any{"cover_image_url": url}); err != nil {
		return nil, err
	}
	return s.GetCurrentUser(ctx, userID)
}

// sanitize strips credential and session state before the record leaves the
// session manager.
func sanitize(u *domain.User) {
	u.PasswordHash = ""
	u.RefreshToken = nil
}
