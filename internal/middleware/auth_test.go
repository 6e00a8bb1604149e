package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	jwtsvc "mediahub/internal/pkg/jwt"
)

func echoIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":  c.GetInt64("user_id"),
		"username": c.GetString("username"),
	})
}

func TestRequireAuth_ValidBearerToken(t *testing.T) {
	codec := jwtsvc.New("test-secret-123", time.Hour)
	token, _ := codec.SignAccess(42, "alice", "alice@test.dev", "Alice A")

	router := gin.New()
	router.Use(RequireAuth(codec))
	router.GET("/protected", echoIdentity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
	assert.Contains(t, w.Body.String(), "alice")
}

func TestRequireAuth_CookieToken(t *testing.T) {
	codec := jwtsvc.New("test-secret-123", time.Hour)
	token, _ := codec.SignAccess(42, "alice", "alice@test.dev", "Alice A")

	router := gin.New()
	router.Use(RequireAuth(codec))
	router.GET("/protected", echoIdentity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestRequireAuth_MissingToken(t *testing.T) {
	codec := jwtsvc.New("test-secret-123", time.Hour)

	router := gin.New()
	router.Use(RequireAuth(codec))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	codec := jwtsvc.New("test-secret-123", time.Hour)

	router := gin.New()
	router.Use(RequireAuth(codec))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler should not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	codec := jwtsvc.New("test-secret-123", time.Hour)
	token, _ := codec.SignAccess(42, "alice", "alice@test.dev", "Alice A")

	router := gin.New()
	router.Use(OptionalAuth(codec))
	router.GET("/open", echoIdentity)

	t.Run("with token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/open", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "42")
	})

	t.Run("without token still passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/open", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":0`)
	})

	t.Run("garbage token treated as anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/open", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":0`)
	})
}
