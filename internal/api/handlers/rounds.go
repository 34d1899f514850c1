package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jwhitfield/fairway/internal/services"
	"github.com/jwhitfield/fairway/pkg/utils"
)

type RoundsHandler struct {
	rounds *services.RoundService
	auth   *services.AuthService
	logger *logrus.Logger
}

func NewRoundsHandler(rounds *services.RoundService, auth *services.AuthService, logger *logrus.Logger) *RoundsHandler {
	return &RoundsHandler{rounds: rounds, auth: auth, logger: logger}
}

type startRoundRequest struct {
	CourseID uuid.UUID  `json:"course_id" binding:"required"`
	RoundID  *uuid.UUID `json:"round_id"`
}

// Start handles POST /api/v1/rounds. With round_id set it resumes that
// round; otherwise it opens a new round on the course, freezing the
// player's current handicap index.
func (h *RoundsHandler) Start(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	var req startRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	round, err := h.rounds.StartOrResumeRound(c.Request.Context(), userID, req.CourseID, user.HandicapIndex, req.RoundID)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	if req.RoundID != nil {
		utils.SendSuccess(c, round)
		return
	}
	utils.SendCreated(c, round)
}

// Get handles GET /api/v1/rounds/:id.
func (h *RoundsHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid round id", "")
		return
	}

	round, err := h.rounds.GetRound(c.Request.Context(), userID, roundID)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, round)
}

// List handles GET /api/v1/rounds?limit=N, newest first.
func (h *RoundsHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.SendValidationError(c, "Invalid limit", "")
			return
		}
		limit = n
	}

	summaries, err := h.rounds.ListRecentRounds(c.Request.Context(), userID, limit)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, summaries)
}

type recordHoleRequest struct {
	GrossStrokes int `json:"gross_strokes" binding:"required,min=1"`
}

// RecordHole handles PATCH /api/v1/rounds/:id/holes/:holeNumber.
// Re-entering a hole overwrites the previous score.
func (h *RoundsHandler) RecordHole(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid round id", "")
		return
	}
	holeNumber, err := strconv.Atoi(c.Param("holeNumber"))
	if err != nil {
		utils.SendValidationError(c, "Invalid hole number", "")
		return
	}

	var req recordHoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	round, err := h.rounds.RecordHole(c.Request.Context(), userID, roundID, holeNumber, req.GrossStrokes)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, round)
}

// Save handles POST /api/v1/rounds/:id/save. An explicit checkpoint of
// an in-progress round.
func (h *RoundsHandler) Save(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid round id", "")
		return
	}

	round, err := h.rounds.SaveProgress(c.Request.Context(), userID, roundID)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, round)
}

// Finish handles POST /api/v1/rounds/:id/finish. Fails with a conflict
// listing the missing holes when any hole has no score yet.
func (h *RoundsHandler) Finish(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid round id", "")
		return
	}

	round, err := h.rounds.FinishRound(c.Request.Context(), userID, roundID)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, round)
}

type switchRoundRequest struct {
	FromRoundID uuid.UUID `json:"from_round_id" binding:"required"`
	ToRoundID   uuid.UUID `json:"to_round_id" binding:"required"`
}

// Switch handles POST /api/v1/rounds/switch. The outgoing round is
// saved before the incoming round is loaded; a failed save aborts the
// switch.
func (h *RoundsHandler) Switch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	var req switchRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	round, err := h.rounds.SwitchActiveRound(c.Request.Context(), userID, req.FromRoundID, req.ToRoundID)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, round)
}

type backfillRequest struct {
	BatchSize int `json:"batch_size"`
}

// Backfill handles POST /api/v1/admin/rounds/backfill, recomputing
// derived fields on finished rounds saved before per-hole points were
// stored.
func (h *RoundsHandler) Backfill(c *gin.Context) {
	// Body is optional; an empty body means the default batch size.
	var req backfillRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if req.BatchSize <= 0 {
		req.BatchSize = 200
	}

	updated, err := h.rounds.BackfillLegacyRounds(c.Request.Context(), req.BatchSize)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{"updated": updated})
}
