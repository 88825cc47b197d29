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

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request/Response Structs ---

type ExerciseRequest struct {
	Name         string   `json:"name" binding:"required"`
	Category     string   `json:"category"`
	MuscleGroups []string `json:"muscleGroups"`
	Equipment    []string `json:"equipment"`
	Difficulty   string   `json:"difficulty"`
	Instructions string   `json:"instructions"`
	Aliases      []string `json:"aliases"`
}

type ExerciseResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	MuscleGroups []string  `json:"muscleGroups,omitempty"`
	Equipment    []string  `json:"equipment,omitempty"`
	Difficulty   string    `json:"difficulty,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
	Aliases      []string  `json:"aliases,omitempty"`
	OwnerID      *string   `json:"ownerId,omitempty"`
	HasMedia     bool      `json:"hasMedia"`
	CreatedAt    time.Time `json:"createdAt"`
}

type MediaUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a new exercise (Trainer only)
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ownerID, ok := callerObjectID(c)
	if !ok {
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), &ownerID, &domain.Exercise{
		Name:         req.Name,
		Category:     req.Category,
		MuscleGroups: req.MuscleGroups,
		Equipment:    req.Equipment,
		Difficulty:   req.Difficulty,
		Instructions: req.Instructions,
		Aliases:      req.Aliases,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise")
		}
		return
	}
	c.JSON(http.StatusCreated, mapExerciseToResponse(exercise))
}

// ListExercises godoc
// @Summary List the exercise catalog
// @Tags Exercises
// @Produce json
// @Success 200 {array} ExerciseResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		return
	}

	resp := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		resp[i] = mapExerciseToResponse(&exercises[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetExercise retrieves a single exercise by id.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get exercise")
		}
		return
	}
	c.JSON(http.StatusOK, mapExerciseToResponse(exercise))
}

// UpdateExercise updates an exercise owned by the caller.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	callerID, ok := callerObjectID(c)
	if !ok {
		return
	}
	role, _ := getUserRoleFromContext(c)

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), callerID, role == domain.RoleAdmin, &domain.Exercise{
		ID:           exerciseID,
		Name:         req.Name,
		Category:     req.Category,
		MuscleGroups: req.MuscleGroups,
		Equipment:    req.Equipment,
		Difficulty:   req.Difficulty,
		Instructions: req.Instructions,
		Aliases:      req.Aliases,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise")
		}
		return
	}
	c.JSON(http.StatusOK, mapExerciseToResponse(exercise))
}

// GetMediaUploadURL presigns a direct media upload for an owned exercise.
func (h *ExerciseHandler) GetMediaUploadURL(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	callerID, ok := callerObjectID(c)
	if !ok {
		return
	}

	url, err := h.exerciseService.GetMediaUploadURL(c.Request.Context(), callerID, exerciseID, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadUrl": url})
}

// GetMediaDownloadURL presigns a media download.
func (h *ExerciseHandler) GetMediaDownloadURL(c *gin.Context) {
	exerciseID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	url, err := h.exerciseService.GetMediaDownloadURL(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

func mapExerciseToResponse(e *domain.Exercise) ExerciseResponse {
	resp := ExerciseResponse{
		ID:           e.ID.Hex(),
		Name:         e.Name,
		Category:     e.Category,
		MuscleGroups: e.MuscleGroups,
		Equipment:    e.Equipment,
		Difficulty:   e.Difficulty,
		Instructions: e.Instructions,
		Aliases:      e.Aliases,
		HasMedia:     e.MediaObjectKey != "",
		CreatedAt:    e.CreatedAt,
	}
	if e.OwnerID != nil {
		hex := e.OwnerID.Hex()
		resp.OwnerID = &hex
	}
	return resp
}

// --- Shared path/context helpers ---

// pathObjectID parses the named path parameter as an ObjectID, aborting with
// 400 on failure.
func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// callerObjectID extracts the authenticated user's id, aborting on failure.
func callerObjectID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return primitive.NilObjectID, false
	}
	return id, true
}
