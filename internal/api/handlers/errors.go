package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwhitfield/fairway/internal/models"
	"github.com/jwhitfield/fairway/internal/scoring"
	"github.com/jwhitfield/fairway/internal/services"
	"github.com/jwhitfield/fairway/pkg/utils"
)

// sendDomainError translates core errors into HTTP responses. Every
// handler funnels service errors through here so the taxonomy maps to
// status codes in exactly one place.
func sendDomainError(c *gin.Context, err error) {
	var incomplete *models.IncompleteRoundError

	switch {
	case errors.As(err, &incomplete):
		utils.SendConflict(c, fmt.Sprintf("Round incomplete: holes %v have no score", incomplete.MissingHoles))
	case errors.Is(err, models.ErrRoundAlreadyFinished):
		utils.SendConflict(c, "Round is already finished")
	case errors.Is(err, models.ErrHoleOutOfRange):
		utils.SendValidationError(c, "Hole number out of range", err.Error())
	case errors.Is(err, scoring.ErrInvalidCourseSpec):
		utils.SendValidationError(c, "Invalid course spec", err.Error())
	case errors.Is(err, models.ErrUnauthorized):
		utils.SendForbidden(c, "Not allowed")
	case errors.Is(err, models.ErrNotFound):
		utils.SendNotFound(c, "Not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.SendUnauthorized(c, "Invalid email or password")
	case errors.Is(err, services.ErrRateLimited):
		utils.SendTooManyRequests(c, "Too many attempts, try again later")
	case errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrInvalidHandicapIndex):
		utils.SendValidationError(c, err.Error(), "")
	default:
		utils.SendInternalError(c, "Something went wrong")
	}
}

// currentUserID returns the authenticated user id set by the auth
// middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
