package api

import (
	"errors"
	"fmt"
	"net/http"

	"massimino/fitness-platform/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler bundles the admin-only operations: lead review, API key
// issuance, creative approval and the dashboard.
type AdminHandler struct {
	partnerService  service.PartnerService
	adsService      service.AdsService
	feedbackService service.FeedbackService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	partnerService service.PartnerService,
	adsService service.AdsService,
	feedbackService service.FeedbackService,
) *AdminHandler {
	return &AdminHandler{
		partnerService:  partnerService,
		adsService:      adsService,
		feedbackService: feedbackService,
	}
}

// --- Request Structs ---

type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

// --- Handler Methods ---

// ListPendingLeads returns partner leads awaiting review.
func (h *AdminHandler) ListPendingLeads(c *gin.Context) {
	leads, err := h.partnerService.ListPendingLeads(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list leads")
		return
	}
	c.JSON(http.StatusOK, leads)
}

// ReviewLead godoc
// @Summary Approve or reject a partner lead
// @Description Approval creates a Partner record; API key issuance is a separate call.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param review body ReviewRequest true "Verdict"
// @Success 200 {object} gin.H "Resulting partner id on approval"
// @Failure 404 {object} gin.H "Lead not found"
// @Failure 409 {object} gin.H "Lead already reviewed"
// @Router /admin/leads/{id}/review [post]
func (h *AdminHandler) ReviewLead(c *gin.Context) {
	leadID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if !req.Approve {
		if err := h.partnerService.RejectLead(c.Request.Context(), leadID); err != nil {
			abortLeadError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "rejected"})
		return
	}

	partner, err := h.partnerService.ApproveLead(c.Request.Context(), leadID)
	if err != nil {
		abortLeadError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved", "partnerId": partner.ID.Hex()})
}

// IssueAPIKey godoc
// @Summary Issue a fresh API key for a partner
// @Description The plaintext key appears in this response only; re-issuing invalidates the previous key.
// @Tags Admin
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} gin.H "The new API key"
// @Failure 404 {object} gin.H "Partner not found"
// @Router /admin/partners/{id}/api-key [post]
func (h *AdminHandler) IssueAPIKey(c *gin.Context) {
	partnerID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	key, err := h.partnerService.IssueAPIKey(c.Request.Context(), partnerID)
	if err != nil {
		if errors.Is(err, service.ErrPartnerNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to issue API key")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"apiKey": key})
}

// ListPendingCreatives returns the creative review queue.
func (h *AdminHandler) ListPendingCreatives(c *gin.Context) {
	creatives, err := h.adsService.ListPendingCreatives(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list creatives")
		return
	}
	c.JSON(http.StatusOK, creatives)
}

// ReviewCreative approves or rejects a pending creative.
func (h *AdminHandler) ReviewCreative(c *gin.Context) {
	creativeID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.adsService.ReviewCreative(c.Request.Context(), creativeID, req.Approve); err != nil {
		if errors.Is(err, service.ErrCreativeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to review creative")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ListFeedback returns all submitted feedback, newest first.
func (h *AdminHandler) ListFeedback(c *gin.Context) {
	entries, err := h.feedbackService.List(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list feedback")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DashboardStats returns the admin overview counters.
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.feedbackService.DashboardStats(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to collect dashboard stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func abortLeadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeadNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrLeadNotPending):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process lead review")
	}
}
