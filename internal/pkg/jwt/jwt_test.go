package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	codec := New("access-secret", time.Minute)

	token, err := codec.SignAccess(42, "alice", "alice@test.dev", "Alice A")
	require.NoError(t, err)

	claims, err := codec.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@test.dev", claims.Email)
	assert.Equal(t, "Alice A", claims.FullName)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	codec := New("refresh-secret", time.Hour)

	token, err := codec.SignRefresh(42)
	require.NoError(t, err)

	claims, err := codec.VerifyRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestVerify_WrongSecret(t *testing.T) {
	signer := New("secret-one", time.Hour)
	verifier := New("secret-two", time.Hour)

	token, err := signer.SignRefresh(1)
	require.NoError(t, err)

	_, err = verifier.VerifyRefresh(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_CrossKindSecrets(t *testing.T) {
	// Access and refresh codecs use distinct secrets, so a refresh token
	// never verifies as an access token.
	access := New("access-secret", time.Minute)
	refresh := New("refresh-secret", time.Hour)

	token, err := refresh.SignRefresh(1)
	require.NoError(t, err)

	_, err = access.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	codec := New("secret", -time.Minute)

	token, err := codec.SignRefresh(1)
	require.NoError(t, err)

	_, err = codec.VerifyRefresh(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	codec := New("secret", time.Hour)
	_, err := codec.VerifyAccess("definitely-not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
