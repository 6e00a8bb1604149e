package channel

import (
	"errors"
	"net/http"
	"strconv"

	"mediahub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler exposes the graph queries over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes — channel profile works for anonymous viewers too, so
// it goes behind the optional-auth middleware.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/channels/:username", h.GetChannelProfile)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me/history", h.GetWatchHistory)
	subs := protected.Group("/subscriptions")
	{
		subs.GET("", h.ListSubscribedChannels)
		subs.POST("/:channelId", h.ToggleSubscription)
	}
}

// GetChannelProfile returns a channel's profile with subscriber counts. When
// the request carries a valid session, isSubscribed reflects that viewer.
func (h *Handler) GetChannelProfile(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Username is required")
		return
	}

	var viewerID *int64
	if id := c.GetInt64("user_id"); id != 0 {
		viewerID = &id
	}

	profile, err := h.service.GetChannelProfile(c.Request.Context(), username, viewerID)
	if err != nil {
		if errors.Is(err, ErrChannelNotFound) {
			response.Error(c, http.StatusNotFound, "CHANNEL_NOT_FOUND", "Channel does not exist")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to load channel")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"channel": profile})
}

func (h *Handler) GetWatchHistory(c *gin.Context) {
	history, err := h.service.GetWatchHistory(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to load watch history")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"history": history})
}

func (h *Handler) ToggleSubscription(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("channelId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid channel id")
		return
	}

	subscribed, err := h.service.ToggleSubscription(c.Request.Context(), c.GetInt64("user_id"), channelID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfSubscription):
			response.Error(c, http.StatusBadRequest, "SELF_SUBSCRIPTION", "Cannot subscribe to yourself")
		case errors.Is(err, ErrChannelNotFound):
			response.Error(c, http.StatusNotFound, "CHANNEL_NOT_FOUND", "Channel does not exist")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to update subscription")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subscribed": subscribed})
}

func (h *Handler) ListSubscribedChannels(c *gin.Context) {
	channels, err := h.service.ListSubscribedChannels(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Failed to load subscriptions")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"channels": channels})
}
