package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"uniguide/backend/internal/dto"
	"uniguide/backend/internal/scoring"
	"uniguide/backend/internal/service"
	"uniguide/backend/pkg/response"
)

// ProfileHandler student profile endpoints.
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// GetProfile GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileSvc.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, profile)
}

// UpdateProfile partial update.
// PUT /api/v1/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	profile, err := h.profileSvc.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, profile)
}

// CompleteOnboarding POST /api/v1/profile/onboarding
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	profile, err := h.profileSvc.CompleteOnboarding(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, profile)
}

// UpdateReadiness PUT /api/v1/profile/readiness
func (h *ProfileHandler) UpdateReadiness(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ReadinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	profile, err := h.profileSvc.UpdateReadiness(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, profile)
}

// Evaluate GET /api/v1/profile/evaluation
func (h *ProfileHandler) Evaluate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	eval, err := h.profileSvc.Evaluate(c.Request.Context(), userID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, eval)
}

func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	if errors.Is(err, scoring.ErrInvalidProfile) {
		response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "invalid profile", err.Error())
		return
	}
	handleCommonError(c, err)
}
