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

// AthleteHandler holds the athlete service dependency.
type AthleteHandler struct {
	athleteService service.AthleteService
}

// NewAthleteHandler creates a new AthleteHandler.
func NewAthleteHandler(athleteService service.AthleteService) *AthleteHandler {
	return &AthleteHandler{athleteService: athleteService}
}

// --- Request/Response Structs ---

type SubscriptionResponse struct {
	ID          string    `json:"id"`
	ProgramID   string    `json:"programId"`
	CurrentWeek int       `json:"currentWeek"`
	CurrentDay  int       `json:"currentDay"`
	Progress    float64   `json:"progress"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type LogSetRequest struct {
	ExerciseID string  `json:"exerciseId" binding:"required"`
	SetNumber  int     `json:"setNumber" binding:"required,min=1"`
	Reps       int     `json:"reps" binding:"required,min=0"`
	WeightKg   float64 `json:"weightKg"`
	RPE        float64 `json:"rpe"`
	Notes      string  `json:"notes"`
}

type LogEntryResponse struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	ExerciseID string    `json:"exerciseId"`
	SetNumber  int       `json:"setNumber"`
	Reps       int       `json:"reps"`
	WeightKg   float64   `json:"weightKg,omitempty"`
	RPE        float64   `json:"rpe,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	LoggedAt   time.Time `json:"loggedAt"`
}

// --- Handler Methods ---

// Subscribe godoc
// @Summary Subscribe to a public program
// @Tags Athlete
// @Produce json
// @Param programId path string true "Program ID"
// @Success 201 {object} SubscriptionResponse
// @Failure 400 {object} gin.H "Program not open for subscription"
// @Failure 404 {object} gin.H "Program not found"
// @Router /athlete/programs/{programId}/subscribe [post]
func (h *AthleteHandler) Subscribe(c *gin.Context) {
	programID, ok := pathObjectID(c, "programId")
	if !ok {
		return
	}
	athleteID, ok := callerObjectID(c)
	if !ok {
		return
	}

	sub, err := h.athleteService.Subscribe(c.Request.Context(), athleteID, programID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrProgramNotPublic):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to subscribe")
		}
		return
	}
	c.JSON(http.StatusCreated, mapSubscriptionToResponse(sub))
}

// ListSubscriptions returns the athlete's active subscriptions.
func (h *AthleteHandler) ListSubscriptions(c *gin.Context) {
	athleteID, ok := callerObjectID(c)
	if !ok {
		return
	}

	subs, err := h.athleteService.ListSubscriptions(c.Request.Context(), athleteID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list subscriptions")
		return
	}

	resp := make([]SubscriptionResponse, len(subs))
	for i := range subs {
		resp[i] = mapSubscriptionToResponse(&subs[i])
	}
	c.JSON(http.StatusOK, resp)
}

// AdvanceSubscription moves the athlete one training day forward.
func (h *AthleteHandler) AdvanceSubscription(c *gin.Context) {
	subscriptionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	athleteID, ok := callerObjectID(c)
	if !ok {
		return
	}

	sub, err := h.athleteService.AdvanceSubscription(c.Request.Context(), athleteID, subscriptionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSubscriptionInactive):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to advance subscription")
		}
		return
	}
	c.JSON(http.StatusOK, mapSubscriptionToResponse(sub))
}

// ListSessions returns the athlete's workout sessions.
func (h *AthleteHandler) ListSessions(c *gin.Context) {
	athleteID, ok := callerObjectID(c)
	if !ok {
		return
	}

	sessions, err := h.athleteService.ListSessions(c.Request.Context(), athleteID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	resp := make([]SessionResponse, len(sessions))
	for i := range sessions {
		resp[i] = MapSessionToResponse(&sessions[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetSession returns one session with its performed-set log.
func (h *AthleteHandler) GetSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	athleteID, ok := callerObjectID(c)
	if !ok {
		return
	}

	session, entries, err := h.athleteService.GetSession(c.Request.Context(), athleteID, sessionID)
	if err != nil {
		abortSessionError(c, err)
		return
	}

	entryResp := make([]LogEntryResponse, len(entries))
	for i := range entries {
		entryResp[i] = mapLogEntryToResponse(&entries[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"session": MapSessionToResponse(session),
		"log":     entryResp,
	})
}

// LogSet godoc
// @Summary Record one performed set against a session
// @Tags Athlete
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param set body LogSetRequest true "Performed set"
// @Success 201 {object} LogEntryResponse
// @Failure 403 {object} gin.H "Session belongs to someone else"
// @Failure 404 {object} gin.H "Session not found"
// @Router /athlete/sessions/{id}/log [post]
func (h *AthleteHandler) LogSet(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req LogSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format")
		return
	}

	athleteID, ok := callerObjectID(c)
	if !ok {
		return
	}

	entry, err := h.athleteService.LogSet(c.Request.Context(), athleteID, &domain.SessionLogEntry{
		SessionID:  sessionID,
		ExerciseID: exerciseID,
		SetNumber:  req.SetNumber,
		Reps:       req.Reps,
		WeightKg:   req.WeightKg,
		RPE:        req.RPE,
		Notes:      req.Notes,
	})
	if err != nil {
		abortSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapLogEntryToResponse(entry))
}

// CompleteSession marks a session done and advances any matching program
// subscription.
func (h *AthleteHandler) CompleteSession(c *gin.Context) {
	sessionID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	athleteID, ok := callerObjectID(c)
	if !ok {
		return
	}

	if err := h.athleteService.CompleteSession(c.Request.Context(), athleteID, sessionID); err != nil {
		abortSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func abortSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process session request")
	}
}

func mapSubscriptionToResponse(sub *domain.ProgramSubscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:          sub.ID.Hex(),
		ProgramID:   sub.ProgramID.Hex(),
		CurrentWeek: sub.CurrentWeek,
		CurrentDay:  sub.CurrentDay,
		Progress:    sub.Progress,
		IsActive:    sub.IsActive,
		CreatedAt:   sub.CreatedAt,
	}
}

func mapLogEntryToResponse(e *domain.SessionLogEntry) LogEntryResponse {
	return LogEntryResponse{
		ID:         e.ID.Hex(),
		SessionID:  e.SessionID.Hex(),
		ExerciseID: e.ExerciseID.Hex(),
		SetNumber:  e.SetNumber,
		Reps:       e.Reps,
		WeightKg:   e.WeightKg,
		RPE:        e.RPE,
		Notes:      e.Notes,
		LoggedAt:   e.LoggedAt,
	}
}
