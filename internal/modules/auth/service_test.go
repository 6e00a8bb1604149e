package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"mediahub/internal/domain"
	jwtsvc "mediahub/internal/pkg/jwt"
)

// In-memory user repository. Rotation tests need the refresh-token slot to
// actually persist between calls, so a stateful fake beats expectation mocks.
type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64

	failUpdateFields bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	u.ID = f.nextID
	f.nextID++
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUserRepo) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	if f.failUpdateFields {
		return assert.AnError
	}
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	if v, present := fields["refresh_token"]; present {
		if v == nil {
			u.RefreshToken = nil
		} else {
			token := v.(string)
			u.RefreshToken = &token
		}
	}
	if v, present := fields["password_hash"]; present {
		u.PasswordHash = v.(string)
	}
	return nil
}

type fakeUploader struct {
	calls int
	fail  bool
}

func (f *fakeUploader) Upload(ctx context.Context, localPath string) (string, error) {
	f.calls++
	if f.fail {
		return "", assert.AnError
	}
	return "https://cdn.test/" + localPath, nil
}

func newTestService(repo *fakeUserRepo, uploader *fakeUploader) *Service {
	access := jwtsvc.New("access-secret-test", time.Minute)
	refresh := jwtsvc.New("refresh-secret-test", time.Hour)
	return NewService(repo, access, refresh, uploader)
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{
		Username:     username,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: string(hash),
		AvatarURL:    "https://cdn.test/avatar.png",
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestVerifyCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeUploader{})
	seedUser(t, repo, "alice", "alice@test.dev", "hunter22")

	t.Run("by username", func(t *testing.T) {
		user, err := svc.VerifyCredentials(context.Background(), "alice", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("by email", func(t *testing.T) {
		user, err := svc.VerifyCredentials(context.Background(), "alice@test.dev", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := svc.VerifyCredentials(context.Background(), "nobody", "hunter22")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.VerifyCredentials(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogin_SanitizesUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeUploader{})
	seedUser(t, repo, "alice", "alice@test.dev", "hunter22")

	user, pair, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	require.NotNil(t, pair)

	assert.Empty(t, user.PasswordHash)
	assert.Nil(t, user.RefreshToken)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestIssueSessionPair_PersistsSlot(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeUploader{})
	u := seedUser(t, repo, "alice", "alice@test.dev", "hunter22")

	pair, err := svc.IssueSessionPair(context.Background(), u.ID)
	require.NoError(t, err)

	stored := repo.users[u.ID].RefreshToken
	require.NotNil(t, stored)
	assert.Equal(t, pair.RefreshToken, *stored)
}

func TestIssueSessionPair_PersistFailureReturnsNoTokens(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeUploader{})
	u := seedUser(t, repo, "alice", "alice@test.dev", "hunter22")
	repo.failUpdateFields = true

	pair, err := svc.IssueSessionPair(context.Background(), u.ID)
	assert.Error(t, err)
	assert.Nil(t, pair)
	assert.Nil(t, repo.users[u.ID].RefreshToken)
}

func TestRotateSession(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeUploader{})
	u := seedUser(t, repo, "alice", "alice@test.dev", "hunter22")

	t.Run("missing token checked first", func(t *testing.T) {
		_, err := svc.RotateSession(context.Background(), "")
		assert.ErrorIs(t, err, ErrMissingRefreshToken)
		_, err = svc.RotateSession(context.Background(), "   ")
		assert.ErrorIs(t, err, ErrMissingRefreshToken)
	})

	t.Run("malformed token is invalid, not stale", func(t *testing.T) {
		_, err := svc.RotateSession(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("wrong secret is invalid", func(t *testing.T) {
		other := jwtsvc.New("some-other-secret", time.Hour)
		forged, err := other.SignRefresh(u.ID)
		require.NoError(t, err)
		_, err = svc.RotateSession(context.Background(), forged)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("rotation succeeds exactly once per token", func(t *testing.T) {
		pair, err := svc.IssueSessionPair(context.Background(), u.ID)
		require.NoError(t, err)

		rotated, err := svc.RotateSession(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, rotated.AccessToken)

		// The first token is superseded the moment the new pair lands.
		_, err = svc.RotateSession(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrStaleRefreshToken)

		// The fresh one still works.
		_, err = svc.RotateSession(context.Background(), rotated.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("verified token for a deleted user is stale", func(t *testing.T) {
		ghost := seedUser(t, repo, "ghost", "ghost@test.dev", "hunter22")
		pair, err := svc.IssueSessionPair(context.Background(), ghost.ID)
		require.NoError(t, err)
		delete(repo.users, ghost.ID)

		_, err = svc.RotateSession(context.Background(), pair.RefreshToken)
		assert.ErrorIs(t, err, ErrStaleRefreshToken)
	})
}

func TestEndSession_Idempotent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeUploader{})
	u := seedUser(t, repo, "alice", "alice@test.dev", "hunter22")

	_, err := svc.IssueSessionPair(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, repo.users[u.ID].RefreshToken)

	require.NoError(t, svc.EndSession(context.Background(), u.ID))
	assert.Nil(t, repo.users[u.ID].RefreshToken)

	require.NoError(t, svc.EndSession(context.Background(), u.ID))
	assert.Nil(t, repo.users[u.ID].RefreshToken)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeUploader{})
	u := seedUser(t, repo, "alice", "alice@test.dev", "hunter22")

	pair, err := svc.IssueSessionPair(context.Background(), u.ID)
	require.NoError(t, err)

	t.Run("wrong old password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), u.ID, "wrong", "newpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("success keeps session alive", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(context.Background(), u.ID, "hunter22", "newpassword"))

		_, err := svc.VerifyCredentials(context.Background(), "alice", "newpassword")
		require.NoError(t, err)

		// The stored refresh token still rotates.
		_, err = svc.RotateSession(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
	})
}

func TestRegister(t *testing.T) {
	t.Run("conflict happens before any upload", func(t *testing.T) {
		repo := newFakeUserRepo()
		uploader := &fakeUploader{}
		svc := newTestService(repo, uploader)
		seedUser(t, repo, "alice", "alice@test.dev", "hunter22")

		_, err := svc.Register(context.Background(), RegisterRequest{
			Username: "alice",
			Email:    "other@test.dev",
			FullName: "Alice Clone",
			Password: "hunter22",
		}, "/tmp/avatar.png", "")
		assert.ErrorIs(t, err, ErrUserExists)
		assert.Zero(t, uploader.calls)
	})

	t.Run("missing avatar", func(t *testing.T) {
		repo := newFakeUserRepo()
		uploader := &fakeUploader{}
		svc := newTestService(repo, uploader)

		_, err := svc.Register(context.Background(), RegisterRequest{
			Username: "bob",
			Email:    "bob@test.dev",
			FullName: "Bob",
			Password: "hunter22",
		}, "", "")
		assert.ErrorIs(t, err, ErrAvatarRequired)
		assert.Zero(t, uploader.calls)
	})

	t.Run("blank fields", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := newTestService(repo, &fakeUploader{})

		_, err := svc.Register(context.Background(), RegisterRequest{
			Username: "  ",
			Email:    "bob@test.dev",
			FullName: "Bob",
			Password: "hunter22",
		}, "/tmp/avatar.png", "")
		assert.ErrorIs(t, err, ErrFieldsRequired)
	})

	t.Run("success lowercases and sanitizes", func(t *testing.T) {
		repo := newFakeUserRepo()
		uploader := &fakeUploader{}
		svc := newTestService(repo, uploader)

		user, err := svc.Register(context.Background(), RegisterRequest{
			Username: "Bob",
			Email:    "Bob@Test.dev",
			FullName: "Bob Builder",
			Password: "hunter22",
		}, "/tmp/avatar.png", "/tmp/cover.jpg")
		require.NoError(t, err)

		assert.Equal(t, "bob", user.Username)
		assert.Equal(t, "bob@test.dev", user.Email)
		assert.Empty(t, user.PasswordHash)
		assert.Nil(t, user.RefreshToken)
		assert.Equal(t, 2, uploader.calls)
		require.NotNil(t, user.CoverImageURL)
	})

	t.Run("no cover provided", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := newTestService(repo, &fakeUploader{})

		user, err := svc.Register(context.Background(), RegisterRequest{
			Username: "carol",
			Email:    "carol@test.dev",
			FullName: "Carol",
			Password: "hunter22",
		}, "/tmp/avatar.png", "")
		require.NoError(t, err)
		assert.Nil(t, user.CoverImageURL)
	})
}
