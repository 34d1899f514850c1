package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jwhitfield/fairway/internal/models"
	"github.com/jwhitfield/fairway/internal/services"
	"github.com/jwhitfield/fairway/pkg/utils"
)

type AuthHandler struct {
	auth   *services.AuthService
	logger *logrus.Logger
}

func NewAuthHandler(auth *services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, sessionResponse{Token: token, User: user})
}

// Activate handles POST /api/v1/auth/activate. It sets the first real
// password on a provisioned account whose stored credential is still a
// legacy plaintext placeholder.
func (h *AuthHandler) Activate(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	token, user, err := h.auth.Activate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, sessionResponse{Token: token, User: user})
}

// Me handles GET /api/v1/users/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, user)
}

type handicapRequest struct {
	HandicapIndex *float64 `json:"handicap_index"`
}

// UpdateHandicap handles PUT /api/v1/users/me/handicap. A null index
// clears the player's handicap, after which new rounds fall back to the
// maximum course handicap.
func (h *AuthHandler) UpdateHandicap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	var req handicapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.auth.UpdateHandicapIndex(c.Request.Context(), userID, req.HandicapIndex)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, user)
}
