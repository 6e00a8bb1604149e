package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Codec signs and verifies HS256 tokens for a single secret/TTL pair.
// The session manager holds two: one for access tokens, one for refresh.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// AccessClaims carries the minimal viewer identity.
type AccessClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	jwtlib.RegisteredClaims
}

// RefreshClaims carries only the user id.
type RefreshClaims struct {
	UserID int64 `json:"user_id"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (c *Codec) TTL() time.Duration { return c.ttl }

func (c *Codec) registered() jwtlib.RegisteredClaims {
	now := time.Now()
	return jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(now.Add(c.ttl)),
		IssuedAt:  jwtlib.NewNumericDate(now),
	}
}

func (c *Codec) SignAccess(userID int64, username, email, fullName string) (string, error) {
	claims := AccessClaims{
		UserID:           userID,
		Username:         username,
		Email:            email,
		FullName:         fullName,
		RegisteredClaims: c.registered(),
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *Codec) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &AccessClaims{}, c.keyFunc)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) SignRefresh(userID int64) (string, error) {
	claims := RefreshClaims{
		UserID:           userID,
		RegisteredClaims: c.registered(),
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *Codec) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &RefreshClaims{}, c.keyFunc)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*RefreshClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Codec) keyFunc(t *jwtlib.Token) (any, error) {
	return c.secret, nil
}
