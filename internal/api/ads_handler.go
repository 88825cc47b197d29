package api

import (
	"errors"
	"net/http"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdsHandler holds the ads service dependency.
type AdsHandler struct {
	adsService service.AdsService
}

// NewAdsHandler creates a new AdsHandler.
func NewAdsHandler(adsService service.AdsService) *AdsHandler {
	return &AdsHandler{adsService: adsService}
}

// --- Response Structs ---

type CreativeResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	AssetKey  string `json:"assetKey,omitempty"`
	ClickURL  string `json:"clickUrl,omitempty"`
}

// --- Handler Methods ---

// SelectAd godoc
// @Summary Select an ad creative for a placement
// @Description Picks uniformly at random among eligible creatives. An empty 204 response means no ad qualifies. Selection counts as an impression.
// @Tags Ads
// @Produce json
// @Param placement query string true "Placement slot, e.g. feed, workout_complete"
// @Param userId query string false "User to target; anonymous when omitted"
// @Param exclude query string false "Creative id to exclude (e.g. the one just shown)"
// @Success 200 {object} CreativeResponse
// @Success 204 "No eligible creative"
// @Failure 400 {object} gin.H "Missing placement"
// @Router /ads/select [get]
func (h *AdsHandler) SelectAd(c *gin.Context) {
	placement := c.Query("placement")
	if placement == "" {
		abortWithError(c, http.StatusBadRequest, "placement query parameter is required")
		return
	}

	var userID *primitive.ObjectID
	if hex := c.Query("userId"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid userId format")
			return
		}
		userID = &id
	} else if raw, exists := c.Get(ContextUserIDKey); exists {
		// Authenticated requests are targeted without an explicit userId.
		if hexStr, ok := raw.(string); ok {
			if id, err := primitive.ObjectIDFromHex(hexStr); err == nil {
				userID = &id
			}
		}
	}

	var exclude *primitive.ObjectID
	if hex := c.Query("exclude"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid exclude format")
			return
		}
		exclude = &id
	}

	creative, err := h.adsService.SelectAdForUser(c.Request.Context(), userID, placement, exclude)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to select ad")
		return
	}
	if creative == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, mapCreativeToResponse(creative))
}

// RecordClick godoc
// @Summary Record a click on a creative
// @Tags Ads
// @Produce json
// @Param creativeId path string true "Creative ID"
// @Success 200 {object} gin.H "Click-through URL"
// @Failure 404 {object} gin.H "Creative not found"
// @Router /ads/{creativeId}/click [post]
func (h *AdsHandler) RecordClick(c *gin.Context) {
	creativeID, ok := pathObjectID(c, "creativeId")
	if !ok {
		return
	}

	clickURL, err := h.adsService.RecordClick(c.Request.Context(), creativeID)
	if err != nil {
		if errors.Is(err, service.ErrCreativeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to record click")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"clickUrl": clickURL})
}

func mapCreativeToResponse(cr *domain.AdCreative) CreativeResponse {
	return CreativeResponse{
		ID:        cr.ID.Hex(),
		Title:     cr.Title,
		Body:      cr.Body,
		MediaType: cr.MediaType,
		AssetKey:  cr.AssetKey,
		ClickURL:  cr.ClickURL,
	}
}
