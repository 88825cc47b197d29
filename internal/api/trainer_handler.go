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

// TrainerHandler holds the trainer service dependency.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- Request/Response Structs ---

type AddClientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateSessionRequest struct {
	ProgramID       string   `json:"programId"`
	CustomExercises []string `json:"customExercises"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
}

type CloneProgramRequest struct {
	// ExerciseSwaps maps source exercise ids to replacements.
	ExerciseSwaps map[string]string `json:"exerciseSwaps"`
	// VolumeAdjustments maps exercise ids to set-count multipliers.
	VolumeAdjustments map[string]float64 `json:"volumeAdjustments"`
}

type SessionResponse struct {
	ID           string     `json:"id"`
	AthleteID    string     `json:"athleteId"`
	TrainerID    string     `json:"trainerId"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	ProgramID    *string    `json:"programId,omitempty"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// --- Handler Methods ---

// AddClientByEmail godoc
// @Summary Link an athlete to the trainer by email
// @Tags Trainer
// @Accept json
// @Produce json
// @Param client body AddClientRequest true "Athlete email"
// @Success 200 {object} UserResponse "Linked athlete"
// @Failure 404 {object} gin.H "No user with that email"
// @Failure 409 {object} gin.H "Already linked"
// @Router /trainer/clients [post]
func (h *TrainerHandler) AddClientByEmail(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, ok := callerObjectID(c)
	if !ok {
		return
	}

	client, err := h.trainerService.AddClientByEmail(c.Request.Context(), trainerID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClientAlreadyLinked):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetManagedClients lists the trainer's linked athletes.
func (h *TrainerHandler) GetManagedClients(c *gin.Context) {
	trainerID, ok := callerObjectID(c)
	if !ok {
		return
	}

	clients, err := h.trainerService.GetManagedClients(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	resp := make([]UserResponse, len(clients))
	for i := range clients {
		resp[i] = MapUserToResponse(&clients[i])
	}
	c.JSON(http.StatusOK, resp)
}

// CreateSession godoc
// @Summary Create a workout session for a linked athlete
// @Description Generates the session either from a program's first workout or from a custom exercise list.
// @Tags Trainer
// @Accept json
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param session body CreateSessionRequest true "Session source"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} gin.H "Neither program nor exercises given"
// @Failure 403 {object} gin.H "No active relationship with this athlete"
// @Router /trainer/clients/{athleteId}/sessions [post]
func (h *TrainerHandler) CreateSession(c *gin.Context) {
	athleteID, ok := pathObjectID(c, "athleteId")
	if !ok {
		return
	}
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, ok := callerObjectID(c)
	if !ok {
		return
	}

	spec := service.SessionSpec{
		CustomExercises: req.CustomExercises,
		Title:           req.Title,
		Description:     req.Description,
	}
	if req.ProgramID != "" {
		programID, err := primitive.ObjectIDFromHex(req.ProgramID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid programId format")
			return
		}
		spec.ProgramID = &programID
	}

	session, err := h.trainerService.CreateSessionForAthlete(c.Request.Context(), trainerID, athleteID, spec)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveRelationship):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrSessionSpecEmpty),
			errors.Is(err, service.ErrProgramHasNoWorkouts):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProgramNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create session")
		}
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// CloneProgram godoc
// @Summary Clone a program for a linked athlete
// @Description Deep-copies the program tree into a private template owned by the trainer, applying exercise swaps and volume adjustments, and subscribes the athlete at week 1.
// @Tags Trainer
// @Accept json
// @Produce json
// @Param athleteId path string true "Athlete ID"
// @Param programId path string true "Source program ID"
// @Param customizations body CloneProgramRequest true "Clone customizations"
// @Success 201 {object} ProgramResponse "The private clone"
// @Failure 403 {object} gin.H "No active relationship with this athlete"
// @Failure 404 {object} gin.H "Source program not found"
// @Router /trainer/clients/{athleteId}/programs/{programId}/clone [post]
func (h *TrainerHandler) CloneProgram(c *gin.Context) {
	athleteID, ok := pathObjectID(c, "athleteId")
	if !ok {
		return
	}
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}

	var req CloneProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	custom, err := mapCloneCustomizations(req)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	trainerID, ok := callerObjectID(c)
	if !ok {
		return
	}

	clone, err := h.trainerService.CloneProgramForAthlete(c.Request.Context(), trainerID, athleteID, programID, custom)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveRelationship):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrProgramNotFound),
			errors.Is(err, service.ErrSourcePhaseMissing):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to clone program")
		}
		return
	}
	c.JSON(http.StatusCreated, mapProgramToResponse(clone))
}

func mapCloneCustomizations(req CloneProgramRequest) (service.CloneCustomizations, error) {
	custom := service.CloneCustomizations{}
	if len(req.ExerciseSwaps) > 0 {
		custom.ExerciseSwaps = make(map[primitive.ObjectID]primitive.ObjectID, len(req.ExerciseSwaps))
		for from, to := range req.ExerciseSwaps {
			fromID, err := primitive.ObjectIDFromHex(from)
			if err != nil {
				return custom, fmt.Errorf("invalid exercise id in swaps: %s", from)
			}
			toID, err := primitive.ObjectIDFromHex(to)
			if err != nil {
				return custom, fmt.Errorf("invalid exercise id in swaps: %s", to)
			}
			custom.ExerciseSwaps[fromID] = toID
		}
	}
	if len(req.VolumeAdjustments) > 0 {
		custom.VolumeAdjustments = make(map[primitive.ObjectID]float64, len(req.VolumeAdjustments))
		for idHex, factor := range req.VolumeAdjustments {
			id, err := primitive.ObjectIDFromHex(idHex)
			if err != nil {
				return custom, fmt.Errorf("invalid exercise id in volume adjustments: %s", idHex)
			}
			custom.VolumeAdjustments[id] = factor
		}
	}
	return custom, nil
}

// MapSessionToResponse converts a domain WorkoutSession to its DTO.
func MapSessionToResponse(s *domain.WorkoutSession) SessionResponse {
	resp := SessionResponse{
		ID:           s.ID.Hex(),
		AthleteID:    s.AthleteID.Hex(),
		TrainerID:    s.TrainerID.Hex(),
		Title:        s.Title,
		Description:  s.Description,
		Notes:        s.Notes,
		ScheduledFor: s.ScheduledFor,
		CompletedAt:  s.CompletedAt,
	}
	if s.ProgramID != nil {
		hex := s.ProgramID.Hex()
		resp.ProgramID = &hex
	}
	return resp
}
