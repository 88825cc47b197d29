package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/service"

	"github.com/gin-gonic/gin"
)

// SocialHandler holds the social and feedback service dependencies.
type SocialHandler struct {
	socialService   service.SocialService
	feedbackService service.FeedbackService
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(socialService service.SocialService, feedbackService service.FeedbackService) *SocialHandler {
	return &SocialHandler{socialService: socialService, feedbackService: feedbackService}
}

// --- Request Structs ---

type ConnectRequest struct {
	Platform     string     `json:"platform" binding:"required"`
	AccessToken  string     `json:"accessToken" binding:"required"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

type ShareRequest struct {
	Platform string `json:"platform" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

type FeedbackRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
	Rating  int    `json:"rating" binding:"min=0,max=5"`
}

// --- Handler Methods ---

// Connect stores an OAuth token blob for a platform. The handshake itself
// happens client-side; the server only keeps the resulting tokens.
func (h *SocialHandler) Connect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, ok := callerObjectID(c)
	if !ok {
		return
	}

	conn := domain.SocialConnection{
		Platform:     req.Platform,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	}
	if req.ExpiresAt != nil {
		conn.ExpiresAt = *req.ExpiresAt
	}

	if err := h.socialService.Connect(c.Request.Context(), userID, conn); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to connect platform")
		return
	}
	c.Status(http.StatusNoContent)
}

// Disconnect removes a platform connection.
func (h *SocialHandler) Disconnect(c *gin.Context) {
	platform := c.Param("platform")
	userID, ok := callerObjectID(c)
	if !ok {
		return
	}

	if err := h.socialService.Disconnect(c.Request.Context(), userID, platform); err != nil {
		if errors.Is(err, service.ErrPlatformNotConnected) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to disconnect platform")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ListConnections returns the caller's connected platforms.
func (h *SocialHandler) ListConnections(c *gin.Context) {
	userID, ok := callerObjectID(c)
	if !ok {
		return
	}

	conns, err := h.socialService.ListConnections(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list connections")
		return
	}
	c.JSON(http.StatusOK, conns)
}

// Share godoc
// @Summary Share a message to a connected platform
// @Description Best-effort: delivery failures still return 202. Moderated text can be rejected with 400.
// @Tags Social
// @Accept json
// @Produce json
// @Param share body ShareRequest true "Platform and message"
// @Success 202 "Accepted for delivery"
// @Failure 400 {object} gin.H "Content rejected by moderation"
// @Failure 404 {object} gin.H "Platform not connected"
// @Router /social/share [post]
func (h *SocialHandler) Share(c *gin.Context) {
	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, ok := callerObjectID(c)
	if !ok {
		return
	}

	if err := h.socialService.Share(c.Request.Context(), userID, req.Platform, req.Message); err != nil {
		switch {
		case errors.Is(err, service.ErrContentRejected):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPlatformNotConnected):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to share")
		}
		return
	}
	c.Status(http.StatusAccepted)
}

// SubmitFeedback stores a feedback entry after moderation.
func (h *SocialHandler) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, ok := callerObjectID(c)
	if !ok {
		return
	}

	fb, err := h.feedbackService.Submit(c.Request.Context(), userID, &domain.Feedback{
		Subject: req.Subject,
		Message: req.Message,
		Rating:  req.Rating,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentRejected), errors.Is(err, service.ErrFeedbackEmpty):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to submit feedback")
		}
		return
	}
	c.JSON(http.StatusCreated, fb)
}
