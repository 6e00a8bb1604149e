package auth

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"mediahub/internal/domain"
	"mediahub/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CookieConfig controls the session cookies set on login and rotation.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	cookies CookieConfig
}

func NewHandler(service *Service, cookies CookieConfig) *Handler {
	return &Handler{
		service: service,
		cookies: cookies,
	}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	authGroup := protected.Group("/auth")
	{
		authGroup.POST("/logout", h.Logout)
		authGroup.POST("/change-password", h.ChangePassword)
	}
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.PATCH("/me", h.UpdateAccount)
		userGroup.PATCH("/me/avatar", h.UpdateAvatar)
		userGroup.PATCH("/me/cover", h.UpdateCover)
	}
}

// Register creates an account from a multipart form: text fields plus a
// required "avatar" file and an optional "coverImage" file.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	avatarPath, err := saveTempUpload(c, "avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Avatar file is required")
		return
	}
	defer removeIfPresent(avatarPath)

	coverPath, _ := saveTempUpload(c, "coverImage")
	defer removeIfPresent(coverPath)

	user, err := h.service.Register(c.Request.Context(), req, avatarPath, coverPath)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			response.Error(c, http.StatusConflict, "USER_EXISTS", "Username or email is already registered")
		case errors.Is(err, ErrFieldsRequired), errors.Is(err, ErrAvatarRequired):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user.Public()})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, pair, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrFieldsRequired):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Username or email is required")
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User does not exist")
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Password is incorrect")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to log in")
		}
		return
	}

	h.setSessionCookies(c, pair)
	response.Success(c, http.StatusOK, gin.H{
		"user":         user.Public(),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Refresh rotates the session pair. The refresh token comes from the cookie
// or, failing that, the JSON body.
func (h *Handler) Refresh(c *gin.Context) {
	presented, _ := c.Cookie("refreshToken")
	if presented == "" {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.service.RotateSession(c.Request.Context(), presented)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingRefreshToken):
			response.Error(c, http.StatusUnauthorized, "TOKEN_MISSING", "Refresh token is required")
		case errors.Is(err, ErrInvalidRefreshToken):
			response.Error(c, http.StatusUnauthorized, "TOKEN_INVALID", "Refresh token is invalid or expired")
		case errors.Is(err, ErrStaleRefreshToken):
			response.Error(c, http.StatusUnauthorized, "TOKEN_STALE", "Refresh token has been superseded")
		default:
			response.Error(c, http.StatusInternalServerError, "REFRESH_FAILED", "Failed to refresh session")
		}
		return
	}

	h.setSessionCookies(c, pair)
	response.Success(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if err := h.service.EndSession(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to log out")
		return
	}
	h.clearSessionCookies(c)
	response.Success(c, http.StatusOK, gin.H{})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.service.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Old password is incorrect")
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User does not exist")
		default:
			response.Error(c, http.StatusInternalServerError, "PASSWORD_CHANGE_FAILED", "Failed to change password")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.GetCurrentUser(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User does not exist")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to load user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user.Public()})
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.UpdateAccount(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists):
			response.Error(c, http.StatusConflict, "USER_EXISTS", "Email is already registered")
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User does not exist")
		default:
			response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update account")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user.Public()})
}

func (h *Handler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.service.UpdateAvatar)
}

func (h *Handler) UpdateCover(c *gin.Context) {
	h.updateImage(c, "coverImage", h.service.UpdateCover)
}

func (h *Handler) updateImage(c *gin.Context, field string, update func(ctx context.Context, userID int64, localPath string) (*domain.User, error)) {
	path, err := saveTempUpload(c, field)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Image file is required")
		return
	}
	defer removeIfPresent(path)

	user, err := update(c.Request.Context(), c.GetInt64("user_id"), path)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User does not exist")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to upload image")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user.Public()})
}

func (h *Handler) setSessionCookies(c *gin.Context, pair *TokenPair) {
	c.SetCookie("accessToken", pair.AccessToken, int(h.cookies.AccessTTL.Seconds()), "/", "", h.cookies.Secure, true)
	c.SetCookie("refreshToken", pair.RefreshToken, int(h.cookies.RefreshTTL.Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *Handler) clearSessionCookies(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", h.cookies.Secure, true)
}

// saveTempUpload stores the named multipart file under a random temp path.
// Returns an error when the field is absent.
func saveTempUpload(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", err
	}
	path := tempUploadPath(file)
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

func tempUploadPath(file *multipart.FileHeader) string {
	return filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(file.Filename))
}

// removeIfPresent cleans up a temp upload the service did not consume. The
// uploader already removes files it was handed, so a missing file is fine.
func removeIfPresent(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
