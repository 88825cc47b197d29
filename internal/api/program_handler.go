package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"massimino/fitness-platform/internal/domain"
	"massimino/fitness-platform/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler holds the catalog service dependency.
type ProgramHandler struct {
	catalogService service.CatalogService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(catalogService service.CatalogService) *ProgramHandler {
	return &ProgramHandler{catalogService: catalogService}
}

// --- Request/Response Structs ---

type IngestTemplateRequest struct {
	// ProgramID is optional; omitted means a fresh id is allocated. Passing
	// the same id again re-runs the upsert idempotently.
	ProgramID string          `json:"programId"`
	Document  json.RawMessage `json:"document" binding:"required"`
}

type ProgramResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	DurationWeeks int       `json:"durationWeeks"`
	Difficulty    string    `json:"difficulty,omitempty"`
	Category      string    `json:"category,omitempty"`
	Visibility    string    `json:"visibility"`
	Tags          []string  `json:"tags,omitempty"`
	OwnerID       *string   `json:"ownerId,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type PhaseResponse struct {
	ID              string `json:"id"`
	PhaseNumber     int    `json:"phaseNumber"`
	Name            string `json:"name"`
	StartWeek       int    `json:"startWeek"`
	EndWeek         int    `json:"endWeek"`
	TargetIntensity string `json:"targetIntensity,omitempty"`
	TargetVolume    string `json:"targetVolume,omitempty"`
	RepRange        string `json:"repRange,omitempty"`
	Sets            int    `json:"sets,omitempty"`
	RestRange       string `json:"restRange,omitempty"`
}

// --- Handler Methods ---

// IngestTemplate godoc
// @Summary Upsert a program from an authored template document
// @Description Parses the document, writes the template and rebuilds its phase tree. Re-running with the same programId is idempotent.
// @Tags Programs
// @Accept json
// @Produce json
// @Param template body IngestTemplateRequest true "Template document"
// @Success 200 {object} gin.H "Program id and detected document kind"
// @Failure 400 {object} gin.H "Invalid input or unparsable document"
// @Router /trainer/programs [post]
func (h *ProgramHandler) IngestTemplate(c *gin.Context) {
	var req IngestTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	programID := primitive.NewObjectID()
	if req.ProgramID != "" {
		var err error
		programID, err = primitive.ObjectIDFromHex(req.ProgramID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid programId format")
			return
		}
	}

	ownerID, ok := callerObjectID(c)
	if !ok {
		return
	}

	doc, err := h.catalogService.IngestTemplate(c.Request.Context(), programID, req.Document, &ownerID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Failed to ingest template: %v", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"programId": programID.Hex(),
		"kind":      doc.Kind,
		"name":      doc.Name,
	})
}

// ListPrograms godoc
// @Summary Browse the public program catalog
// @Tags Programs
// @Produce json
// @Success 200 {array} ProgramResponse
// @Router /programs [get]
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	programs, err := h.catalogService.ListPublicPrograms(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list programs")
		return
	}

	resp := make([]ProgramResponse, len(programs))
	for i := range programs {
		resp[i] = mapProgramToResponse(&programs[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetProgram retrieves one program together with its phase breakdown.
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	programID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	program, err := h.catalogService.GetProgram(c.Request.Context(), programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get program")
		}
		return
	}

	phases, err := h.catalogService.GetProgramPhases(c.Request.Context(), programID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get program phases")
		return
	}

	phaseResp := make([]PhaseResponse, len(phases))
	for i, p := range phases {
		phaseResp[i] = PhaseResponse{
			ID:              p.ID.Hex(),
			PhaseNumber:     p.PhaseNumber,
			Name:            p.Name,
			StartWeek:       p.StartWeek,
			EndWeek:         p.EndWeek,
			TargetIntensity: p.TargetIntensity,
			TargetVolume:    p.TargetVolume,
			RepRange:        p.RepRange,
			Sets:            p.Sets,
			RestRange:       p.RestRange,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"program": mapProgramToResponse(program),
		"phases":  phaseResp,
	})
}

// DeactivateProgram soft-deletes a program from the catalog.
func (h *ProgramHandler) DeactivateProgram(c *gin.Context) {
	programID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeactivateProgram(c.Request.Context(), programID); err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to deactivate program")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func mapProgramToResponse(p *domain.ProgramTemplate) ProgramResponse {
	resp := ProgramResponse{
		ID:            p.ID.Hex(),
		Name:          p.Name,
		Description:   p.Description,
		DurationWeeks: p.DurationWeeks,
		Difficulty:    p.Difficulty,
		Category:      p.Category,
		Visibility:    string(p.Visibility),
		Tags:          p.Tags,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.OwnerID != nil {
		hex := p.OwnerID.Hex()
		resp.OwnerID = &hex
	}
	return resp
}
