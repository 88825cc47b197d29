package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PartnerHandler holds the partner and ads service dependencies.
type PartnerHandler struct {
	partnerService service.PartnerService
	adsService     service.AdsService
}

// NewPartnerHandler creates a new PartnerHandler.
func NewPartnerHandler(partnerService service.PartnerService, adsService service.AdsService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService, adsService: adsService}
}

// --- Request/Response Structs ---

type LeadRequest struct {
	CompanyName  string `json:"companyName" binding:"required"`
	ContactName  string `json:"contactName" binding:"required"`
	ContactEmail string `json:"contactEmail" binding:"required,email"`
	Message      string `json:"message"`
}

type CampaignRequest struct {
	Name        string             `json:"name" binding:"required"`
	BudgetCents int64              `json:"budgetCents" binding:"required,min=1"`
	CPMCents    int64              `json:"cpmCents" binding:"min=0"`
	CPCCents    int64              `json:"cpcCents" binding:"min=0"`
	StartAt     *time.Time         `json:"startAt"`
	EndAt       *time.Time         `json:"endAt"`
	Placements  []string           `json:"placements" binding:"required,min=1"`
	Targeting   domain.AdTargeting `json:"targeting"`
}

type CampaignResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Status      string             `json:"status"`
	BudgetCents int64              `json:"budgetCents"`
	SpendCents  int64              `json:"spendCents"`
	CPMCents    int64              `json:"cpmCents"`
	CPCCents    int64              `json:"cpcCents"`
	StartAt     *time.Time         `json:"startAt,omitempty"`
	EndAt       *time.Time         `json:"endAt,omitempty"`
	Placements  []string           `json:"placements"`
	Targeting   domain.AdTargeting `json:"targeting"`
	Impressions int64              `json:"impressions"`
	Clicks      int64              `json:"clicks"`
}

type CreativeRequest struct {
	CampaignID string `json:"campaignId" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Body       string `json:"body"`
	MediaType  string `json:"mediaType"`
	AssetKey   string `json:"assetKey"`
	ClickURL   string `json:"clickUrl" binding:"required,url"`
}

type GymRequest struct {
	GymName  string `json:"gymName" binding:"required"`
	Location string `json:"location"`
}

// --- Handler Methods ---

// SubmitLead godoc
// @Summary Submit a partnership inquiry
// @Tags Partners
// @Accept json
// @Produce json
// @Param lead body LeadRequest true "Inquiry details"
// @Success 201 {object} gin.H "Lead id"
// @Failure 400 {object} gin.H "Invalid input"
// @Router /partners/leads [post]
func (h *PartnerHandler) SubmitLead(c *gin.Context) {
	var req LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	lead, err := h.partnerService.SubmitLead(c.Request.Context(), &domain.PartnerLead{
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		Message:      req.Message,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to submit lead")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"leadId": lead.ID.Hex(), "status": lead.Status})
}

// CreateCampaign creates a DRAFT campaign for the authenticated partner.
func (h *PartnerHandler) CreateCampaign(c *gin.Context) {
	var req CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	partner, err := getPartnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve partner")
		return
	}

	campaign, err := h.adsService.CreateCampaign(c.Request.Context(), &domain.AdCampaign{
		PartnerID:   partner.ID,
		Name:        req.Name,
		BudgetCents: req.BudgetCents,
		CPMCents:    req.CPMCents,
		CPCCents:    req.CPCCents,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Placements:  req.Placements,
		Targeting:   req.Targeting,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create campaign")
		return
	}
	c.JSON(http.StatusCreated, mapCampaignToResponse(campaign))
}

// ListCampaigns lists the partner's campaigns.
func (h *PartnerHandler) ListCampaigns(c *gin.Context) {
	partner, err := getPartnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve partner")
		return
	}

	campaigns, err := h.adsService.ListPartnerCampaigns(c.Request.Context(), partner.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list campaigns")
		return
	}

	resp := make([]CampaignResponse, len(campaigns))
	for i := range campaigns {
		resp[i] = mapCampaignToResponse(&campaigns[i])
	}
	c.JSON(http.StatusOK, resp)
}

// TransitionCampaign builds the handler for one explicit lifecycle action:
// activate, pause, resume, complete or archive.
func (h *PartnerHandler) TransitionCampaign(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaignID, ok := pathObjectID(c, "id")
		if !ok {
			return
		}
		partner, err := getPartnerFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Failed to resolve partner")
			return
		}

		ctx := c.Request.Context()
		switch action {
		case "activate":
			err = h.adsService.ActivateCampaign(ctx, partner.ID, campaignID)
		case "pause":
			err = h.adsService.PauseCampaign(ctx, partner.ID, campaignID)
		case "resume":
			err = h.adsService.ResumeCampaign(ctx, partner.ID, campaignID)
		case "complete":
			err = h.adsService.CompleteCampaign(ctx, partner.ID, campaignID)
		case "archive":
			err = h.adsService.ArchiveCampaign(ctx, partner.ID, campaignID)
		default:
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown campaign action '%s'", action))
			return
		}

		if err != nil {
			abortCampaignError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// AddCreative attaches a creative to one of the partner's campaigns. It
// enters the admin review queue as PENDING.
func (h *PartnerHandler) AddCreative(c *gin.Context) {
	var req CreativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	campaignID, err := primitive.ObjectIDFromHex(req.CampaignID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid campaignId format")
		return
	}

	partner, err := getPartnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve partner")
		return
	}

	creative, err := h.adsService.AddCreative(c.Request.Context(), partner.ID, &domain.AdCreative{
		CampaignID: campaignID,
		Title:      req.Title,
		Body:       req.Body,
		MediaType:  req.MediaType,
		AssetKey:   req.AssetKey,
		ClickURL:   req.ClickURL,
	})
	if err != nil {
		abortCampaignError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"creativeId":     creative.ID.Hex(),
		"approvalStatus": creative.ApprovalStatus,
	})
}

// GetCreativeUploadURL presigns a direct upload for a creative asset.
func (h *PartnerHandler) GetCreativeUploadURL(c *gin.Context) {
	campaignID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	partner, err := getPartnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve partner")
		return
	}

	uploadURL, objectKey, err := h.adsService.GetCreativeAssetUploadURL(c.Request.Context(), partner.ID, campaignID, req.ContentType)
	if err != nil {
		abortCampaignError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadUrl": uploadURL, "assetKey": objectKey})
}

// RegisterGym connects a partner gym system.
func (h *PartnerHandler) RegisterGym(c *gin.Context) {
	var req GymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	partner, err := getPartnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve partner")
		return
	}

	gym, err := h.partnerService.RegisterGym(c.Request.Context(), partner.ID, &domain.GymIntegration{
		GymName:  req.GymName,
		Location: req.Location,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to register gym")
		return
	}
	c.JSON(http.StatusCreated, gym)
}

// ListGyms lists the partner's gym integrations.
func (h *PartnerHandler) ListGyms(c *gin.Context) {
	partner, err := getPartnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve partner")
		return
	}

	gyms, err := h.partnerService.ListGyms(c.Request.Context(), partner.ID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list gyms")
		return
	}
	c.JSON(http.StatusOK, gyms)
}

func abortCampaignError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCampaignNotFound), errors.Is(err, service.ErrCreativeNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCampaignAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process campaign request")
	}
}

func mapCampaignToResponse(campaign *domain.AdCampaign) CampaignResponse {
	return CampaignResponse{
		ID:          campaign.ID.Hex(),
		Name:        campaign.Name,
		Status:      string(campaign.Status),
		BudgetCents: campaign.BudgetCents,
		SpendCents:  campaign.SpendCents,
		CPMCents:    campaign.CPMCents,
		CPCCents:    campaign.CPCCents,
		StartAt:     campaign.StartAt,
		EndAt:       campaign.EndAt,
		Placements:  campaign.Placements,
		Targeting:   campaign.Targeting,
		Impressions: campaign.Impressions,
		Clicks:      campaign.Clicks,
	}
}
